package testutil

// FixedRunTokenGenerator returns the same run token every time.
//
// Golden trace files embed the run token, so tests need a predictable one.
// Implements trace.RunTokenGenerator.
type FixedRunTokenGenerator struct {
	token string
}

// NewFixedRunTokenGenerator creates a generator returning token. An empty
// token defaults to "test-run-default".
func NewFixedRunTokenGenerator(token string) *FixedRunTokenGenerator {
	if token == "" {
		token = "test-run-default"
	}
	return &FixedRunTokenGenerator{token: token}
}

// Generate returns the fixed token.
func (g *FixedRunTokenGenerator) Generate() string {
	return g.token
}
