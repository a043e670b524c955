package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/stakedlearn/stakedlearn/api"
)

// EnvToken is read when --token is not set.
const EnvToken = "STAKEDLEARN_TOKEN"

// APIError is a non-2xx answer of the HTTP API.
type APIError struct {
	Status    int
	Code      uint32
	Codespace string
	Kind      string
	Message   string
}

func (e *APIError) Error() string {
	if e.Codespace != "" {
		return fmt.Sprintf("%s (%d, %s/%d %s)", e.Message, e.Status, e.Codespace, e.Code, e.Kind)
	}
	return fmt.Sprintf("%s (%d %s)", e.Message, e.Status, e.Kind)
}

// Client talks to the HTTP API of a stakedlearnd node.
type Client struct {
	rc *resty.Client
}

// NewClient creates a client for the API at baseURL. An empty token only
// allows public queries.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if token != "" {
		rc.SetAuthToken(token)
	}
	return &Client{rc: rc}
}

// Get issues a GET request and returns the raw JSON answer.
func (c *Client) Get(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Post issues a POST request with an optional JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPut, path, body)
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (json.RawMessage, error) {
	req := c.rc.R().SetContext(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		apiErr := &APIError{Status: resp.StatusCode(), Message: resp.Status()}
		var res api.ErrorResponse
		if err := json.Unmarshal(resp.Body(), &res); err == nil && res.Error != "" {
			apiErr.Code = res.Code
			apiErr.Codespace = res.Codespace
			apiErr.Kind = res.Kind
			apiErr.Message = res.Error
		}
		return nil, apiErr
	}
	return json.RawMessage(resp.Body()), nil
}

// clientFromCmd builds a Client from the persistent flags of cmd.
func clientFromCmd(cmd *cobra.Command) (*Client, error) {
	node, err := cmd.Flags().GetString(FlagNode)
	if err != nil {
		return nil, err
	}
	token, err := cmd.Flags().GetString(FlagToken)
	if err != nil {
		return nil, err
	}
	if token == "" {
		token = os.Getenv(EnvToken)
	}
	timeout, err := cmd.Flags().GetDuration(FlagTimeout)
	if err != nil {
		return nil, err
	}
	return NewClient(node, token, timeout), nil
}

// AddClientFlags registers the connection flags on cmd and its children.
func AddClientFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String(FlagNode, DefaultNode, "HTTP API address of the node")
	cmd.PersistentFlags().String(FlagToken, "", "caller token (defaults to $"+EnvToken+")")
	cmd.PersistentFlags().Duration(FlagTimeout, 15*time.Second, "request timeout")
	cmd.PersistentFlags().String(FlagOutput, OutputJSON, "output format (json|yaml)")
}

// printOutput writes an API answer in the format selected by --output.
func printOutput(cmd *cobra.Command, raw json.RawMessage) error {
	format, err := cmd.Flags().GetString(FlagOutput)
	if err != nil {
		return err
	}
	switch format {
	case OutputJSON:
		return printJSON(cmd, raw)
	case OutputYAML:
		var v interface{}
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("failed to decode answer: %w", err)
		}
		bz, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(bz)
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func printJSON(cmd *cobra.Command, raw json.RawMessage) error {
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		_, err = cmd.OutOrStdout().Write(raw)
		return err
	}
	out.WriteByte('\n')
	_, err := out.WriteTo(cmd.OutOrStdout())
	return err
}
