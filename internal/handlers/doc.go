/*
Package handlers implements the HTTP surface of the service: the
szurubooru-compatible read-only gallery API (info, posts, tags, pools,
post navigation) plus content and thumbnail file serving and a health
endpoint.

All endpoints are anonymous. Errors surface as JSON documents with an
"error" field; invalid search queries and unknown tags are client
errors, a failed thumbnail generation is a server error.
*/
package handlers
