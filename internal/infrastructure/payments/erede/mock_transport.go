package erede

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockTransport answers e.Rede requests in process with provider-shaped
// replies. It is used when PAYMENT_GATEWAY_MOCK is enabled and keeps the
// authorized amounts so captures and consults stay consistent.
type MockTransport struct {
	mu      sync.Mutex
	amounts map[string]int64
	now     func() time.Time
}

func NewMockTransport() *MockTransport {
	return &MockTransport{amounts: map[string]int64{}, now: time.Now}
}

func (m *MockTransport) Do(req *http.Request) (*http.Response, error) {
	var params map[string]any
	if req.Body != nil {
		b, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		if len(b) > 0 {
			_ = json.Unmarshal(b, &params)
		}
	}

	now := m.now().UTC().Format(time.RFC3339)
	nsu := fmt.Sprintf("%09d", m.now().UnixNano()%1_000_000_000)
	tid := transactionIDFromPath(req.URL.Path)

	var reply map[string]any
	status := http.StatusOK
	switch {
	case req.Method == http.MethodPost && tid == "":
		tid = strings.ReplaceAll(uuid.NewString(), "-", "")[:20]
		amount := intParam(params, "amount")
		m.store(tid, amount)
		status = http.StatusCreated
		reply = map[string]any{
			"reference":         params["reference"],
			"tid":               tid,
			"nsu":               nsu,
			"authorizationCode": nsu[len(nsu)-6:],
			"dateTime":          now,
			"amount":            amount,
			"returnCode":        "00",
			"returnMessage":     "Success.",
		}
	case req.Method == http.MethodPut:
		reply = map[string]any{
			"tid":           tid,
			"nsu":           nsu,
			"dateTime":      now,
			"returnCode":    "00",
			"returnMessage": "Success.",
		}
	case req.Method == http.MethodGet:
		reply = map[string]any{
			"authorization": map[string]any{
				"tid":           tid,
				"nsu":           nsu,
				"dateTime":      now,
				"status":        "Approved",
				"amount":        m.load(tid),
				"returnCode":    "00",
				"returnMessage": "Success.",
			},
		}
	default:
		status = http.StatusCreated
		reply = map[string]any{
			"refundId":       uuid.NewString(),
			"tid":            tid,
			"nsu":            nsu,
			"refundDateTime": now,
			"amount":         intParam(params, "amount"),
			"returnCode":     "359",
			"returnMessage":  "Refund successful.",
		}
	}

	b, err := json.Marshal(reply)
	if err != nil {
		return nil, err
	}
	return &http.Response{
		StatusCode:    status,
		Status:        http.StatusText(status),
		Header:        http.Header{"Content-Type": []string{"application/json"}},
		Body:          io.NopCloser(bytes.NewReader(b)),
		ContentLength: int64(len(b)),
		Request:       req,
	}, nil
}

func (m *MockTransport) store(tid string, amount int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.amounts[tid] = amount
}

func (m *MockTransport) load(tid string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.amounts[tid]
}

// transactionIDFromPath extracts {tid} from .../transactions/{tid}[/refunds].
func transactionIDFromPath(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, p := range parts {
		if p == "transactions" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}

func intParam(params map[string]any, key string) int64 {
	if v, ok := params[key].(float64); ok {
		return int64(v)
	}
	return 0
}
