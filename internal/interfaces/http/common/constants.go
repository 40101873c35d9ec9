package common

const (
	// MaxReviewRequestBody limits JSON request bodies for review endpoints.
	MaxReviewRequestBody = 1 << 20
	// MaxFormBody limits urlencoded form submissions of the web pages.
	MaxFormBody = 64 << 10
)
