package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/uast/internal/config"
	"github.com/standardbeagle/uast/internal/project"
)

func testServer(t *testing.T, root string) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.Project.Root = root
	ix := project.NewIndexer(cfg)
	_, err := ix.IndexProject(context.Background())
	require.NoError(t, err)

	s := NewServer(ix)
	t.Cleanup(s.Close)
	return s
}

func callToolRequest(t *testing.T, params interface{}) *sdk.CallToolRequest {
	t.Helper()
	raw, err := json.Marshal(params)
	require.NoError(t, err)
	return &sdk.CallToolRequest{
		Params: &sdk.CallToolParamsRaw{Arguments: json.RawMessage(raw)},
	}
}

func resultPayload(t *testing.T, res *sdk.CallToolResult) map[string]interface{} {
	t.Helper()
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*sdk.TextContent)
	require.True(t, ok)
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &payload))
	return payload
}

func TestHandleParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.c")
	require.NoError(t, os.WriteFile(path, []byte("int main() { return 0; }\n"), 0o644))

	s := testServer(t, dir)
	res, err := s.handleParseFile(context.Background(), callToolRequest(t, map[string]interface{}{"path": path}))
	require.NoError(t, err)

	payload := resultPayload(t, res)
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, "c", payload["language"])
	require.Contains(t, payload, "ast")
	assert.NotContains(t, payload, "cst")

	res, err = s.handleParseFile(context.Background(), callToolRequest(t, map[string]interface{}{
		"path":        path,
		"include_cst": true,
	}))
	require.NoError(t, err)
	payload = resultPayload(t, res)
	cst, ok := payload["cst"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "translation_unit", cst["type"])
}

func TestHandleParseFileErrors(t *testing.T) {
	s := testServer(t, t.TempDir())

	res, err := s.handleParseFile(context.Background(), callToolRequest(t, map[string]interface{}{"path": "missing.c"}))
	require.NoError(t, err)
	payload := resultPayload(t, res)
	assert.Equal(t, false, payload["success"])
	assert.Equal(t, "parse_file", payload["operation"])
}

func TestHandleLookupSymbol(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.c"), []byte("int helper() { return 1; }\n"), 0o644))

	s := testServer(t, dir)
	res, err := s.handleLookupSymbol(context.Background(), callToolRequest(t, map[string]interface{}{"name": "a.c.helper"}))
	require.NoError(t, err)

	payload := resultPayload(t, res)
	assert.Equal(t, true, payload["found"])
	assert.Equal(t, "a.c.helper", payload["qualified_name"])
	assert.Equal(t, "FUNCTION", payload["type"])

	res, err = s.handleLookupSymbol(context.Background(), callToolRequest(t, map[string]interface{}{"name": "nowhere"}))
	require.NoError(t, err)
	payload = resultPayload(t, res)
	assert.Equal(t, false, payload["found"])
}

func TestHandleResolutionStats(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.c"), []byte("int helper() { return 1; }\n"), 0o644))

	s := testServer(t, dir)
	res, err := s.handleResolutionStats(context.Background(), callToolRequest(t, map[string]interface{}{}))
	require.NoError(t, err)

	payload := resultPayload(t, res)
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, float64(1), payload["files_indexed"])
}

func TestServerCloseIdempotent(t *testing.T) {
	s := NewServer(nil)
	s.Close()
	s.Close()
}
