package domain

// Answer is the processing service's reply to a question about a manual.
// Images are opaque base64 payloads; their order matches citation order in
// the answer text and must be preserved exactly as received.
type Answer struct {
	Message string   `json:"message"`
	Answer  string   `json:"answer"`
	Images  []string `json:"images"`
}
