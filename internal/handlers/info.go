package handlers

import (
	"net/http"
	"time"

	"booru-bridge/internal/logging"
)

// infoConfig is the static server configuration block clients read at
// startup. There are no accounts; everything interesting is anonymous
// and everything mutating is pinned to ranks that can never log in.
var infoConfig = map[string]any{
	"userNameRegex":        "^[a-zA-Z0-9_-]{1,32}$",
	"passwordRegex":        "^.{5,}$",
	"tagNameRegex":         "^\\S+$",
	"tagCategoryNameRegex": "^[^\\s%+#/]+$",
	"defaultUserRank":      "administrator",
	"enableSafety":         true,
	"contactEmail":         nil,
	"canSendMails":         false,
	"privileges": map[string]string{
		"users:create:self":          "anonymous",
		"users:create:any":           "administrator",
		"users:list":                 "regular",
		"users:view":                 "regular",
		"users:edit:any:name":        "moderator",
		"users:edit:any:pass":        "moderator",
		"users:edit:any:email":       "moderator",
		"users:edit:any:avatar":      "moderator",
		"users:edit:any:rank":        "moderator",
		"users:edit:self:name":       "regular",
		"users:edit:self:pass":       "regular",
		"users:edit:self:email":      "regular",
		"users:edit:self:avatar":     "regular",
		"users:edit:self:rank":       "moderator",
		"users:delete:any":           "administrator",
		"users:delete:self":          "regular",
		"userTokens:list:any":        "administrator",
		"userTokens:list:self":       "regular",
		"userTokens:create:any":      "administrator",
		"userTokens:create:self":     "regular",
		"userTokens:edit:any":        "administrator",
		"userTokens:edit:self":       "regular",
		"userTokens:delete:any":      "administrator",
		"userTokens:delete:self":     "regular",
		"posts:create:anonymous":     "regular",
		"posts:create:identified":    "regular",
		"posts:list":                 "anonymous",
		"posts:reverseSearch":        "regular",
		"posts:view":                 "anonymous",
		"posts:view:featured":        "anonymous",
		"posts:edit:content":         "power",
		"posts:edit:flags":           "regular",
		"posts:edit:notes":           "regular",
		"posts:edit:relations":       "regular",
		"posts:edit:safety":          "power",
		"posts:edit:source":          "regular",
		"posts:edit:tags":            "regular",
		"posts:edit:thumbnail":       "power",
		"posts:feature":              "moderator",
		"posts:delete":               "moderator",
		"posts:score":                "regular",
		"posts:merge":                "moderator",
		"posts:favorite":             "regular",
		"posts:bulk-edit:tags":       "power",
		"posts:bulk-edit:safety":     "power",
		"tags:create":                "regular",
		"tags:edit:names":            "power",
		"tags:edit:category":         "power",
		"tags:edit:description":      "power",
		"tags:edit:implications":     "power",
		"tags:edit:suggestions":      "power",
		"tags:list":                  "regular",
		"tags:view":                  "anonymous",
		"tags:merge":                 "moderator",
		"tags:delete":                "moderator",
		"tagCategories:create":       "moderator",
		"tagCategories:edit:name":    "moderator",
		"tagCategories:edit:color":   "moderator",
		"tagCategories:edit:order":   "moderator",
		"tagCategories:list":         "anonymous",
		"tagCategories:view":         "anonymous",
		"tagCategories:delete":       "moderator",
		"tagCategories:setDefault":   "moderator",
		"pools:create":               "regular",
		"pools:edit:names":           "power",
		"pools:edit:category":        "power",
		"pools:edit:description":     "power",
		"pools:edit:posts":           "power",
		"pools:list":                 "anonymous",
		"pools:view":                 "anonymous",
		"pools:merge":                "moderator",
		"pools:delete":               "moderator",
		"poolCategories:create":      "moderator",
		"poolCategories:edit:name":   "moderator",
		"poolCategories:edit:color":  "moderator",
		"poolCategories:list":        "anonymous",
		"poolCategories:view":        "anonymous",
		"poolCategories:delete":      "moderator",
		"poolCategories:setDefault":  "moderator",
		"comments:create":            "regular",
		"comments:delete:any":        "moderator",
		"comments:delete:own":        "regular",
		"comments:edit:any":          "moderator",
		"comments:edit:own":          "regular",
		"comments:list":              "regular",
		"comments:view":              "regular",
		"comments:score":             "regular",
		"snapshots:list":             "power",
		"uploads:create":             "regular",
		"uploads:useDownloader":      "power",
	},
}

// GetInfo reports global gallery statistics and the static
// configuration block.
func (h *Handlers) GetInfo(w http.ResponseWriter, r *http.Request) {
	count, err := h.store.FileCount(r.Context())
	if err != nil {
		logging.Error("info: failed to count files: %v", err)
		writeJSONError(w, "failed to count posts", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"postCount":     count,
		"diskUsage":     0,
		"featuredPost":  nil,
		"featuringTime": nil,
		"featuringUser": nil,
		"serverTime":    time.Now().UTC().Format("2006-01-02T15:04:05.000000") + "Z",
		"config":        infoConfig,
	})
}
