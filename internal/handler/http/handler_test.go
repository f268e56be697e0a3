package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mkarras/sms-bridge/internal/domain"
	"github.com/mkarras/sms-bridge/internal/media"
	"github.com/mkarras/sms-bridge/internal/service"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type smsCall struct {
	To   string
	Body string
}

type mmsCall struct {
	To          string
	Body        string
	Attachments []string
}

// fakeCellular records outbound cellular sends.
type fakeCellular struct {
	mu     sync.Mutex
	sms    []smsCall
	mms    []mmsCall
	result domain.SendResult
	err    error
}

func (f *fakeCellular) SendSMS(_ context.Context, to, body string) (domain.SendResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sms = append(f.sms, smsCall{To: to, Body: body})
	return f.result, f.err
}

func (f *fakeCellular) SendMMS(_ context.Context, to, body string, attachments []string) (domain.SendResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mms = append(f.mms, mmsCall{To: to, Body: body, Attachments: attachments})
	return f.result, f.err
}

func (f *fakeCellular) calls() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sms), len(f.mms)
}

// fakeRelay records messages delivered to the SIP relay.
type fakeRelay struct {
	mu        sync.Mutex
	delivered []domain.Message
	err       error
}

func (f *fakeRelay) Deliver(_ context.Context, msg domain.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delivered = append(f.delivered, msg)
	return f.err
}

func (f *fakeRelay) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.delivered)
}

// newTestHandler wires a real Bridge and resolver over the fakes so handler
// tests exercise the full translation path.
func newTestHandler(cellular *fakeCellular, relay *fakeRelay) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := service.NewBridge(cellular, relay, media.NewHTTPResolver(logger), logger)
	h := NewHTTPHandler(":0", testSecret, "http://fossify:8080", "http://mmsgate:38443", router, logger)
	return h.server.Handler
}

func doJSON(t *testing.T, handler http.Handler, method, path, bearer, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal response %q: %v", w.Body.String(), err)
	}
	return out
}

func TestFossifyWebhookRejectsBadBearer(t *testing.T) {
	t.Parallel()
	cellular, relay := &fakeCellular{}, &fakeRelay{}
	handler := newTestHandler(cellular, relay)

	w := doJSON(t, handler, http.MethodPost, "/webhook/fossify", "wrong", `{"from":"+15551234567","text":"hi"}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", w.Code)
	}
	if relay.count() != 0 {
		t.Error("unauthorized call reached the relay")
	}
}

func TestFossifyWebhookRejectsMissingBearer(t *testing.T) {
	t.Parallel()
	cellular, relay := &fakeCellular{}, &fakeRelay{}
	handler := newTestHandler(cellular, relay)

	w := doJSON(t, handler, http.MethodPost, "/webhook/fossify", "", `{"from":"+15551234567","text":"hi"}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", w.Code)
	}
	if sms, mms := cellular.calls(); sms != 0 || mms != 0 || relay.count() != 0 {
		t.Error("unauthorized call produced an outbound request")
	}
}

func TestFossifyWebhookForwardsToRelay(t *testing.T) {
	t.Parallel()
	cellular, relay := &fakeCellular{}, &fakeRelay{}
	handler := newTestHandler(cellular, relay)

	w := doJSON(t, handler, http.MethodPost, "/webhook/fossify", testSecret, `{"from":"+15551234567","text":"hi"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200: %s", w.Code, w.Body.String())
	}
	if got := decodeBody(t, w)["status"]; got != "delivered" {
		t.Errorf("response status: got %v, want delivered", got)
	}
	if relay.count() != 1 {
		t.Fatalf("relay deliveries: got %d, want 1", relay.count())
	}
	msg := relay.delivered[0]
	if msg.From != "+15551234567" || msg.Body != "hi" || msg.Kind() != domain.KindSMS {
		t.Errorf("relayed message: got %+v kind %q", msg, msg.Kind())
	}
}

func TestFossifyWebhookFieldAliases(t *testing.T) {
	t.Parallel()
	cellular, relay := &fakeCellular{}, &fakeRelay{}
	handler := newTestHandler(cellular, relay)

	// phoneNumber wins over from, message wins over text
	w := doJSON(t, handler, http.MethodPost, "/webhook/fossify", testSecret,
		`{"phoneNumber":"+15550001111","from":"+15559992222","message":"primary","text":"alias"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
	msg := relay.delivered[0]
	if msg.From != "+15550001111" || msg.Body != "primary" {
		t.Errorf("alias resolution: got from=%q body=%q", msg.From, msg.Body)
	}
}

func TestFossifyWebhookMissingNumber(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(&fakeCellular{}, &fakeRelay{})

	w := doJSON(t, handler, http.MethodPost, "/webhook/fossify", testSecret, `{"text":"hi"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", w.Code)
	}
	if got := decodeBody(t, w)["error"]; got != "No phone number" {
		t.Errorf("error: got %v, want %q", got, "No phone number")
	}
}

func TestFossifyWebhookRelayFailure(t *testing.T) {
	t.Parallel()
	relay := &fakeRelay{err: &domain.DownstreamError{Op: "relay_deliver", Status: 503}}
	handler := newTestHandler(&fakeCellular{}, relay)

	w := doJSON(t, handler, http.MethodPost, "/webhook/fossify", testSecret, `{"from":"+15551234567","text":"hi"}`)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", w.Code)
	}
	if got := decodeBody(t, w)["error"]; got != "Failed to deliver to mmsgate" {
		t.Errorf("error: got %v", got)
	}
}

func TestFossifyWebhookPassesAttachmentsUnresolved(t *testing.T) {
	t.Parallel()
	relay := &fakeRelay{}
	handler := newTestHandler(&fakeCellular{}, relay)

	w := doJSON(t, handler, http.MethodPost, "/webhook/fossify", testSecret,
		`{"from":"+15551234567","text":"pic","attachments":["aGVsbG8="]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
	msg := relay.delivered[0]
	if msg.Kind() != domain.KindMMS {
		t.Errorf("kind: got %q, want mms", msg.Kind())
	}
	if len(msg.Attachments) != 1 || msg.Attachments[0] != "aGVsbG8=" {
		t.Errorf("attachments: got %v, want pass-through", msg.Attachments)
	}
}

func TestLinphoneWebhookSendsSMS(t *testing.T) {
	t.Parallel()
	cellular := &fakeCellular{}
	handler := newTestHandler(cellular, &fakeRelay{})

	w := doJSON(t, handler, http.MethodPost, "/webhook/linphone", testSecret, `{"to":"+15551234567","message":"hi"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200: %s", w.Code, w.Body.String())
	}
	if got := decodeBody(t, w)["status"]; got != "sent_via_cellular" {
		t.Errorf("response status: got %v, want sent_via_cellular", got)
	}
	if len(cellular.sms) != 1 || cellular.sms[0].To != "+15551234567" || cellular.sms[0].Body != "hi" {
		t.Errorf("sms calls: got %v", cellular.sms)
	}
}

func TestLinphoneWebhookDestinationAliases(t *testing.T) {
	t.Parallel()
	for _, field := range []string{"to", "dst", "destination"} {
		cellular := &fakeCellular{}
		handler := newTestHandler(cellular, &fakeRelay{})
		w := doJSON(t, handler, http.MethodPost, "/webhook/linphone", testSecret,
			`{"`+field+`":"+15551234567","message":"hi"}`)
		if w.Code != http.StatusOK {
			t.Errorf("field %q: status %d, want 200", field, w.Code)
		}
		if len(cellular.sms) != 1 {
			t.Errorf("field %q: sms calls %d, want 1", field, len(cellular.sms))
		}
	}
}

func TestLinphoneWebhookMissingDestination(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(&fakeCellular{}, &fakeRelay{})

	w := doJSON(t, handler, http.MethodPost, "/webhook/linphone", testSecret, `{"message":"hi"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", w.Code)
	}
	if got := decodeBody(t, w)["error"]; got != "No destination" {
		t.Errorf("error: got %v, want %q", got, "No destination")
	}
}

func TestLinphoneWebhookResolvesRemoteMedia(t *testing.T) {
	t.Parallel()
	content := []byte("jpeg bytes")
	mediaSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(content)
	}))
	defer mediaSrv.Close()

	cellular := &fakeCellular{}
	handler := newTestHandler(cellular, &fakeRelay{})

	w := doJSON(t, handler, http.MethodPost, "/webhook/linphone", testSecret,
		`{"to":"+15551234567","message":"pic","media":["`+mediaSrv.URL+`"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200: %s", w.Code, w.Body.String())
	}
	if len(cellular.mms) != 1 {
		t.Fatalf("mms calls: got %d, want 1", len(cellular.mms))
	}
	want := base64.StdEncoding.EncodeToString(content)
	if got := cellular.mms[0].Attachments; len(got) != 1 || got[0] != want {
		t.Errorf("mms attachments: got %v, want [%s]", got, want)
	}
}

func TestLinphoneWebhookUnreachableMediaFallsBackToSMS(t *testing.T) {
	t.Parallel()
	deadSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := deadSrv.URL
	deadSrv.Close()

	cellular := &fakeCellular{}
	handler := newTestHandler(cellular, &fakeRelay{})

	w := doJSON(t, handler, http.MethodPost, "/webhook/linphone", testSecret,
		`{"to":"+15551234567","message":"pic","media":["`+deadURL+`"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200: %s", w.Code, w.Body.String())
	}
	sms, mms := cellular.calls()
	if sms != 1 || mms != 0 {
		t.Errorf("calls after media loss: got %d sms, %d mms; want sms fallback", sms, mms)
	}
}

func TestLinphoneWebhookInlineMediaGoesAsMMS(t *testing.T) {
	t.Parallel()
	cellular := &fakeCellular{}
	handler := newTestHandler(cellular, &fakeRelay{})

	w := doJSON(t, handler, http.MethodPost, "/webhook/linphone", testSecret,
		`{"to":"+15551234567","attachments":["aGVsbG8="]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
	if len(cellular.mms) != 1 {
		t.Fatalf("mms calls: got %d, want 1", len(cellular.mms))
	}
	if got := cellular.mms[0].Attachments[0]; got != "aGVsbG8=" {
		t.Errorf("inline attachment: got %q, want byte-identical", got)
	}
}

func TestSipMessagePlainText(t *testing.T) {
	t.Parallel()
	cellular := &fakeCellular{}
	handler := newTestHandler(cellular, &fakeRelay{})

	req := httptest.NewRequest(http.MethodPost, "/sip/message", strings.NewReader("hello over sip"))
	req.Header.Set("To", "sip:+15551234567@sip.example.com")
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("body: got %q, want empty", w.Body.String())
	}
	if len(cellular.sms) != 1 || cellular.sms[0].To != "+15551234567" || cellular.sms[0].Body != "hello over sip" {
		t.Errorf("sms calls: got %v", cellular.sms)
	}
}

func TestSipMessageNormalizesBareNumber(t *testing.T) {
	t.Parallel()
	cellular := &fakeCellular{}
	handler := newTestHandler(cellular, &fakeRelay{})

	req := httptest.NewRequest(http.MethodPost, "/sip/message", strings.NewReader("hi"))
	req.Header.Set("To", "tel:15551234567")
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
	if cellular.sms[0].To != "+15551234567" {
		t.Errorf("to: got %q, want +15551234567", cellular.sms[0].To)
	}
}

func TestSipMessageInvalidTo(t *testing.T) {
	t.Parallel()
	cellular := &fakeCellular{}
	handler := newTestHandler(cellular, &fakeRelay{})

	req := httptest.NewRequest(http.MethodPost, "/sip/message", strings.NewReader("hi"))
	req.Header.Set("To", "mailto:nobody@example.com")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", w.Code)
	}
	if sms, mms := cellular.calls(); sms != 0 || mms != 0 {
		t.Error("invalid To still dispatched a message")
	}
}

func TestSipMessageMultipartPlaceholder(t *testing.T) {
	t.Parallel()
	cellular := &fakeCellular{}
	handler := newTestHandler(cellular, &fakeRelay{})

	req := httptest.NewRequest(http.MethodPost, "/sip/message", strings.NewReader("--boundary\r\n..."))
	req.Header.Set("To", "sip:+15551234567@sip.example.com")
	req.Header.Set("Content-Type", "multipart/mixed; boundary=boundary")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
	if len(cellular.sms) != 1 || cellular.sms[0].Body != "MMS message" {
		t.Errorf("multipart dispatch: got %v, want placeholder sms", cellular.sms)
	}
}

func TestVoipmsSendSMSNormalizesAndResponds(t *testing.T) {
	t.Parallel()
	cellular := &fakeCellular{}
	handler := newTestHandler(cellular, &fakeRelay{})

	// no bearer token on purpose: the emulation endpoint trusts the network
	w := doJSON(t, handler, http.MethodPost, "/voipms/api?method=sendSMS&dst=15551234567&message=hi", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200: %s", w.Code, w.Body.String())
	}
	if len(cellular.sms) != 1 || cellular.sms[0].To != "+15551234567" {
		t.Errorf("sms calls: got %v, want normalized dst", cellular.sms)
	}
	body := decodeBody(t, w)
	if body["status"] != "success" {
		t.Errorf("status field: got %v, want success", body["status"])
	}
	if id, _ := body["sms"].(string); id == "" {
		t.Errorf("sms id: got %v, want non-empty", body["sms"])
	}
}

func TestVoipmsSendSMSFormEncoded(t *testing.T) {
	t.Parallel()
	cellular := &fakeCellular{}
	handler := newTestHandler(cellular, &fakeRelay{})

	form := "method=sendSMS&dst=%2B15551234567&message=hi"
	req := httptest.NewRequest(http.MethodPost, "/voipms/api", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200: %s", w.Code, w.Body.String())
	}
	if len(cellular.sms) != 1 || cellular.sms[0].To != "+15551234567" {
		t.Errorf("sms calls: got %v", cellular.sms)
	}
}

func TestVoipmsSendSMSUsesDownstreamID(t *testing.T) {
	t.Parallel()
	cellular := &fakeCellular{result: domain.SendResult{ID: "abc123", Status: "sent"}}
	handler := newTestHandler(cellular, &fakeRelay{})

	w := doJSON(t, handler, http.MethodGet, "/voipms/api?method=sendSMS&dst=15551234567&message=hi", "", "")
	if got := decodeBody(t, w)["sms"]; got != "abc123" {
		t.Errorf("sms id: got %v, want downstream abc123", got)
	}
}

func TestVoipmsSendSMSMissingParams(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(&fakeCellular{}, &fakeRelay{})

	w := doJSON(t, handler, http.MethodGet, "/voipms/api?method=sendSMS&dst=15551234567", "", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", w.Code)
	}
	body := decodeBody(t, w)
	if body["status"] != "error" || body["error"] != "Missing dst or message" {
		t.Errorf("body: got %v", body)
	}
}

func TestVoipmsSendMMSAllMediaFailDemotesToSMS(t *testing.T) {
	t.Parallel()
	deadSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := deadSrv.URL
	deadSrv.Close()

	cellular := &fakeCellular{}
	handler := newTestHandler(cellular, &fakeRelay{})

	w := doJSON(t, handler, http.MethodGet,
		"/voipms/api?method=sendMMS&dst=15551234567&message=pic&media1="+deadURL+"/a.jpg&media2="+deadURL+"/b.jpg", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200: %s", w.Code, w.Body.String())
	}
	sms, mms := cellular.calls()
	if sms != 1 || mms != 0 {
		t.Errorf("calls: got %d sms, %d mms; want plain sms", sms, mms)
	}
	body := decodeBody(t, w)
	if _, hasMMS := body["mms"]; hasMMS {
		t.Error("response carries mms key after demotion")
	}
	if id, _ := body["sms"].(string); id == "" {
		t.Errorf("sms id: got %v, want non-empty", body["sms"])
	}
}

func TestVoipmsSendMMSResolvesMediaSlots(t *testing.T) {
	t.Parallel()
	content := []byte("media payload")
	mediaSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(content)
	}))
	defer mediaSrv.Close()

	cellular := &fakeCellular{}
	handler := newTestHandler(cellular, &fakeRelay{})

	w := doJSON(t, handler, http.MethodGet,
		"/voipms/api?method=sendMMS&dst=15551234567&media1="+mediaSrv.URL, "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200: %s", w.Code, w.Body.String())
	}
	if len(cellular.mms) != 1 {
		t.Fatalf("mms calls: got %d, want 1", len(cellular.mms))
	}
	body := decodeBody(t, w)
	if body["status"] != "success" {
		t.Errorf("status: got %v", body["status"])
	}
	if id, _ := body["mms"].(string); id == "" {
		t.Errorf("mms id: got %v, want non-empty", body["mms"])
	}
}

func TestVoipmsSendMMSMissingDst(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(&fakeCellular{}, &fakeRelay{})

	w := doJSON(t, handler, http.MethodGet, "/voipms/api?method=sendMMS", "", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", w.Code)
	}
	if got := decodeBody(t, w)["error"]; got != "Missing dst" {
		t.Errorf("error: got %v, want %q", got, "Missing dst")
	}
}

func TestVoipmsUnknownMethod(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(&fakeCellular{}, &fakeRelay{})

	w := doJSON(t, handler, http.MethodGet, "/voipms/api?method=getBalance", "", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", w.Code)
	}
	body := decodeBody(t, w)
	if body["status"] != "error" || body["error"] != "Method getBalance not supported by bridge" {
		t.Errorf("body: got %v", body)
	}
}

func TestVoipmsMissingMethod(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(&fakeCellular{}, &fakeRelay{})

	w := doJSON(t, handler, http.MethodGet, "/voipms/api", "", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", w.Code)
	}
	if got := decodeBody(t, w)["error"]; got != "Missing method parameter" {
		t.Errorf("error: got %v", got)
	}
}

func TestVoipmsDownstreamFailure(t *testing.T) {
	t.Parallel()
	cellular := &fakeCellular{err: &domain.DownstreamError{Op: "send_sms", Status: 502}}
	handler := newTestHandler(cellular, &fakeRelay{})

	w := doJSON(t, handler, http.MethodGet, "/voipms/api?method=sendSMS&dst=15551234567&message=hi", "", "")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", w.Code)
	}
	if got := decodeBody(t, w)["status"]; got != "error" {
		t.Errorf("status field: got %v, want error", got)
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(&fakeCellular{}, &fakeRelay{})

	w := doJSON(t, handler, http.MethodGet, "/health", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
	body := decodeBody(t, w)
	if body["status"] != "ok" || body["bridge"] != "sms-mms-bridge" {
		t.Errorf("health body: got %v", body)
	}
}

func TestTestFossifyDefaults(t *testing.T) {
	t.Parallel()
	cellular := &fakeCellular{result: domain.SendResult{ID: "99", Status: "sent"}}
	handler := newTestHandler(cellular, &fakeRelay{})

	w := doJSON(t, handler, http.MethodPost, "/test/fossify", "", `{}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200: %s", w.Code, w.Body.String())
	}
	if len(cellular.sms) != 1 || cellular.sms[0].To != "+15551234567" || cellular.sms[0].Body != "Test from bridge" {
		t.Errorf("test send: got %v", cellular.sms)
	}
	if got := decodeBody(t, w)["status"]; got != "ok" {
		t.Errorf("status: got %v, want ok", got)
	}
}
