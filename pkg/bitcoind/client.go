package bitcoind

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/ratelimit"

	"github.com/bwt-network/bwt-daemon/pkg/stats"
)

const requestsPerSecond = 100

var (
	// MaxNumOfFailingRequests ...
	MaxNumOfFailingRequests = 10
	// FailingRatio ...
	FailingRatio = 0.6
)

// RpcClient is a JSON-RPC 1.0 client for the bitcoind HTTP interface. Calls
// are rate limited and guarded by a circuit breaker that trips once the
// transport keeps failing.
type RpcClient struct {
	url        string
	user       string
	passwd     string
	httpClient *http.Client
	limiter    ratelimit.Limiter
	cb         *gobreaker.CircuitBreaker
	nextID     uint64
}

// NewClient returns a client for the JSON-RPC interface of the node, with no
// TLS termination unless useTLS is set.
func NewClient(host string, port int, user, passwd string, useTLS bool, timeoutSecs int) *RpcClient {
	scheme := "http"
	if useTLS {
		scheme = "https"
	}
	return &RpcClient{
		url:        fmt.Sprintf("%s://%s:%d", scheme, host, port),
		user:       user,
		passwd:     passwd,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSecs) * time.Second},
		limiter:    ratelimit.New(requestsPerSecond),
		cb:         newCircuitBreaker(),
	}
}

type rpcRequest struct {
	JsonRPC string      `json:"jsonrpc"`
	ID      uint64      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Err    *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

func (c *RpcClient) call(method string, params interface{}) (rpcResponse, error) {
	if params == nil {
		params = []interface{}{}
	}
	body, err := json.Marshal(rpcRequest{
		JsonRPC: "1.0",
		ID:      atomic.AddUint64(&c.nextID, 1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return rpcResponse{}, err
	}

	c.limiter.Take()
	stats.RpcCalls.WithLabelValues(method).Inc()
	res, err := c.cb.Execute(func() (interface{}, error) {
		req, err := http.NewRequest(http.MethodPost, c.url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.SetBasicAuth(c.user, c.passwd)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		var parsed rpcResponse
		if err := json.Unmarshal(raw, &parsed); err != nil {
			return nil, fmt.Errorf("unexpected response for %s: %s", method, raw)
		}
		return parsed, nil
	})
	if err != nil {
		return rpcResponse{}, err
	}
	return res.(rpcResponse), nil
}

func handleError(err error, r *rpcResponse) error {
	if err != nil {
		return err
	}
	if r.Err != nil {
		return r.Err
	}
	return nil
}

// newCircuitBreaker returns a *gobreaker.CircuitBreaker with a state-changing
// function that activates once the overall number of failing requests has
// reached MaxNumOfFailingRequests and the failing ratio has met FailingRatio.
func newCircuitBreaker() *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "bitcoind",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return int(counts.Requests) > MaxNumOfFailingRequests && ratio >= FailingRatio
		},
	})
}
