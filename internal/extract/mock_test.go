package extract

import "context"

// mockClient implements ai.Client with injectable responses.
type mockClient struct {
	extractFn  func(ctx context.Context, image []byte, mimeType, prompt string) (string, error)
	completeFn func(ctx context.Context, systemPrompt, prompt string) (string, error)

	extractCalls  int
	completeCalls int
}

func (m *mockClient) ExtractReceipt(ctx context.Context, image []byte, mimeType, prompt string) (string, error) {
	m.extractCalls++
	return m.extractFn(ctx, image, mimeType, prompt)
}

func (m *mockClient) Complete(ctx context.Context, systemPrompt, prompt string) (string, error) {
	m.completeCalls++
	return m.completeFn(ctx, systemPrompt, prompt)
}
