package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"golang.org/x/oauth2"
)

func testHandler(exchangeURL string) *OAuthHandler {
	config := &oauth2.Config{
		ClientID: "sati-test",
		Endpoint: oauth2.Endpoint{TokenURL: exchangeURL},
	}
	return NewOAuthHandler(config, "expected-state")
}

func callback(h *OAuthHandler, query url.Values) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/callback?"+query.Encode(), nil)
	h.ServeHTTP(rec, req)
	return rec
}

func TestOAuthHandler(t *testing.T) {
	t.Run("serves only the callback route", func(t *testing.T) {
		h := testHandler("http://localhost/token")

		routes := h.Routes()
		if len(routes) != 1 || routes[0] != "/callback" {
			t.Errorf("expected [/callback], got %v", routes)
		}
	})

	t.Run("rejects a mismatched state", func(t *testing.T) {
		h := testHandler("http://localhost/token")

		rec := callback(h, url.Values{"state": {"forged"}, "code": {"abc"}})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}

		result := <-h.Result()
		if result.Error() == nil {
			t.Error("expected a state validation error")
		}
	})

	t.Run("reports a denied authorization", func(t *testing.T) {
		h := testHandler("http://localhost/token")

		rec := callback(h, url.Values{
			"state":             {"expected-state"},
			"error":             {"access_denied"},
			"error_description": {"user declined"},
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}

		result := <-h.Result()
		if result.Error() == nil || !strings.Contains(result.Error().Error(), "access_denied") {
			t.Errorf("expected the denial reason, got %v", result.Error())
		}
	})

	t.Run("exchanges the code and delivers the token", func(t *testing.T) {
		tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token":"at-123","token_type":"Bearer"}`))
		}))
		defer tokenSrv.Close()

		h := testHandler(tokenSrv.URL)
		rec := callback(h, url.Values{"state": {"expected-state"}, "code": {"auth-code"}})
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Signed In") {
			t.Error("expected the success page")
		}

		result := <-h.Result()
		if result.Error() != nil {
			t.Fatalf("unexpected error: %v", result.Error())
		}
		if result.Token == nil || result.Token.AccessToken != "at-123" {
			t.Errorf("unexpected token: %+v", result.Token)
		}
	})

	t.Run("second callback is rejected", func(t *testing.T) {
		h := testHandler("http://localhost/token")

		callback(h, url.Values{"state": {"forged"}})
		rec := callback(h, url.Values{"state": {"expected-state"}, "code": {"abc"}})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for a repeated callback, got %d", rec.Code)
		}
	})

	t.Run("the result channel closes after delivery", func(t *testing.T) {
		h := testHandler("http://localhost/token")
		h.Send(NewOAuthError(errors.New("listen failed")))
		h.Send(OAuthResult{})

		result, ok := <-h.Result()
		if !ok || result.Error() == nil {
			t.Fatal("expected the first result")
		}
		if _, ok := <-h.Result(); ok {
			t.Error("expected the channel to be closed")
		}
	})
}
