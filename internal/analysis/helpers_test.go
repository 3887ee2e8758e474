package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"a11y-backend/internal/artifacts"
	"a11y-backend/internal/imagegen"
	"a11y-backend/internal/llm"
	"a11y-backend/internal/shared/server/middleware"
	"a11y-backend/internal/shared/storage/object/local"
)

// fakeLLM answers by operation and records every request.
type fakeLLM struct {
	mu        sync.Mutex
	responses map[llm.Operation]string
	err       error
	calls     []llm.Request
}

func (f *fakeLLM) Generate(_ context.Context, req llm.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	if f.err != nil {
		return "", f.err
	}
	return f.responses[req.Operation], nil
}

func (f *fakeLLM) ops() []llm.Operation {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]llm.Operation, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.Operation)
	}
	return out
}

type fakeGenerator struct {
	img imagegen.Image
	err error
}

func (g fakeGenerator) Generate(context.Context, string) (imagegen.Image, error) {
	return g.img, g.err
}

type countingRecorder struct {
	mu     sync.Mutex
	parses map[string]int
	fixes  map[string]int
}

func newRecorder() *countingRecorder {
	return &countingRecorder{parses: map[string]int{}, fixes: map[string]int{}}
}

func (r *countingRecorder) IncParseOutcome(report, kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parses[report+"/"+kind]++
}

func (r *countingRecorder) IncImageFix(filter string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fixes[filter]++
}

func newTestService(t *testing.T, client llm.Client) *Service {
	t.Helper()
	return &Service{
		LLM:       client,
		Images:    imagegen.Disabled{},
		Artifacts: &artifacts.Service{Store: local.New(t.TempDir()), Repo: artifacts.NewMemoryRepo()},
	}
}

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Session(false))
	NewHandler(svc, 1<<20).RegisterRoutes(r)
	return r
}

// checkerPNG returns a non-uniform PNG so filters visibly change it.
func checkerPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			c := color.NRGBA{A: 255}
			if (x/4+y/4)%2 == 0 {
				c = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

type formFile struct {
	field string
	name  string
	data  []byte
}

func multipartRequest(t *testing.T, path string, fields map[string]string, files ...formFile) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for _, f := range files {
		fw, err := w.CreateFormFile(f.field, f.name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write(f.data); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func jsonRequest(t *testing.T, path string, payload any) *http.Request {
	t.Helper()
	b, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func serve(r http.Handler, req *http.Request, sessionID string) *httptest.ResponseRecorder {
	if sessionID != "" {
		req.Header.Set(middleware.SessionHeader, sessionID)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	if err := json.Unmarshal(resp.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error body %q: %v", resp.Body.String(), err)
	}
	return env
}
