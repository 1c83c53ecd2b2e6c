package pickup

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type verifyRequest struct {
	// Scanned is the raw scanner output: a bare token or a full verify URL.
	Scanned string `json:"scanned"`
}

type verifyResponse struct {
	OK         bool   `json:"ok"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	OwnerState string `json:"owner_state,omitempty"`
}

// Router exposes the pickup endpoints. GET /qr/verify/{token} is the
// human-facing target of the QR URL itself; POST /verify serves scanner
// tooling. Both belong behind the caller's rate-limit middleware.
func Router(svc *Service, middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		for _, mw := range middlewares {
			r.Use(mw)
		}
		r.Get("/qr/verify/{token}", handleVerifyURL(svc))
		r.Post("/verify", handleVerify(svc))
	})

	r.Post("/pickings/{pickingID}/code", handleMarkReady(svc))
	r.Post("/pickings/{pickingID}/code/resend", handleResend(svc))

	return r
}

func handleVerifyURL(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := svc.Present(r.Context(), chi.URLParam(r, "token"))
		if err != nil {
			http.Error(w, "verification temporarily unavailable", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if !res.Redeemed() {
			w.WriteHeader(http.StatusConflict)
		}
		fmt.Fprintln(w, res.Message)
	}
}

func handleVerify(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req verifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Scanned == "" {
			writeJSON(w, http.StatusBadRequest, verifyResponse{
				Code:    "bad_request",
				Message: "scanned value is required",
			})
			return
		}

		res, err := svc.Present(r.Context(), req.Scanned)
		if err != nil {
			http.Error(w, "verification temporarily unavailable", http.StatusServiceUnavailable)
			return
		}

		writeJSON(w, http.StatusOK, verifyResponse{
			OK:         res.Redeemed(),
			Code:       string(res.Outcome),
			Message:    res.Message,
			OwnerState: res.OwnerState,
		})
	}
}

func handleMarkReady(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pickingID, err := uuid.Parse(chi.URLParam(r, "pickingID"))
		if err != nil {
			http.Error(w, "invalid picking id", http.StatusBadRequest)
			return
		}

		issued, err := svc.MarkReady(r.Context(), pickingID)
		if err != nil {
			http.Error(w, "issuance failed", http.StatusInternalServerError)
			return
		}
		if issued == nil {
			// not a store-pickup order
			w.WriteHeader(http.StatusNoContent)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"token":   issued.Record.Token,
			"payload": issued.Payload,
		})
	}
}

func handleResend(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pickingID, err := uuid.Parse(chi.URLParam(r, "pickingID"))
		if err != nil {
			http.Error(w, "invalid picking id", http.StatusBadRequest)
			return
		}

		if err := svc.ResendCode(r.Context(), pickingID); err != nil {
			http.Error(w, "resend failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
