package cosmos

// Wire headers of the service REST contract. The dispatch layer is the only
// writer; facades never touch headers directly.
const (
	headerVersion          = "x-ms-version"
	headerDate             = "x-ms-date"
	headerAuthorization    = "Authorization"
	headerActivityID       = "x-ms-activity-id"
	headerRequestCharge    = "x-ms-request-charge"
	headerSessionToken     = "x-ms-session-token"
	headerConsistencyLevel = "x-ms-consistency-level"
	headerContinuation     = "x-ms-continuation"
	headerMaxItemCount     = "x-ms-max-item-count"
	headerItemCount        = "x-ms-item-count"
	headerIsQuery          = "x-ms-documentdb-isquery"
	headerIsUpsert         = "x-ms-documentdb-is-upsert"
	headerPartitionKey     = "x-ms-documentdb-partitionkey"
	headerCrossPartition   = "x-ms-documentdb-query-enablecrosspartition"
	headerIfMatch          = "If-Match"
	headerIfNoneMatch      = "If-None-Match"
	headerRetryAfterMS     = "x-ms-retry-after-ms"
	headerUserAgent        = "User-Agent"
	headerContentType      = "Content-Type"
	headerETag             = "etag"
)

const (
	// apiVersion is the REST contract version this client speaks.
	apiVersion = "2018-12-31"

	contentTypeJSON  = "application/json"
	contentTypeQuery = "application/query+json"

	// consistencySession is the only level that requires token bookkeeping
	// on the client side.
	consistencySession = "Session"
)
