package suite

import (
	"io"
	"net/http"
	"path"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TelegramRequest is a Bot API call captured by TelegramClient.
type TelegramRequest struct {
	Method string
	Form   map[string]string
}

// TelegramClient stands in for the Bot API. Every call succeeds and is sent to Requests.
type TelegramClient struct {
	t        *testing.T
	Requests chan TelegramRequest
}

func NewTelegramClient(t *testing.T) *TelegramClient {
	return &TelegramClient{t: t, Requests: make(chan TelegramRequest, 16)}
}

func (c *TelegramClient) Do(request *http.Request) (*http.Response, error) {
	c.Requests <- TelegramRequest{Method: path.Base(request.URL.Path), Form: ParseRequestBody(c.t, request)}
	return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(`{"ok":true,"result":{}}`))}, nil
}

// Next waits for the next call with the given Bot API method, skipping others.
func (c *TelegramClient) Next(method string) TelegramRequest {
	c.t.Helper()

	timeout := time.After(2 * time.Second)
	for {
		select {
		case req := <-c.Requests:
			if req.Method == method {
				return req
			}
		case <-timeout:
			c.t.Fatalf("no %s request sent to telegram", method)
			return TelegramRequest{}
		}
	}
}

func ParseRequestBody(t *testing.T, request *http.Request) map[string]string {
	form := map[string]string{}
	if request.Body == nil {
		return form
	}

	reader, err := request.MultipartReader()
	require.NoError(t, err)

	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)

		value, _ := io.ReadAll(part)
		form[part.FormName()] = string(value)
	}

	return form
}
