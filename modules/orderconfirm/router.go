package orderconfirm

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/redeemkit/redeemkit/pkg/redemption"
)

// verifyRequest is the machine-facing presentation body.
type verifyRequest struct {
	// Payload is the raw scanned string.
	Payload string `json:"payload"`
	// PrincipalID identifies the presenting customer account.
	PrincipalID uuid.UUID `json:"principal_id"`
}

// verifyResponse mirrors redemption.Result for scanner clients.
type verifyResponse struct {
	OK         bool   `json:"ok"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	OwnerState string `json:"owner_state,omitempty"`
}

type issueResponse struct {
	Token    string `json:"token"`
	Payload  string `json:"payload"`
	ImagePNG string `json:"image_png,omitempty"` // base64
}

// Router exposes the order-confirmation endpoints. The verify route is
// expected to sit behind the rate-limit middleware supplied by the caller.
func Router(svc *Service, middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		for _, mw := range middlewares {
			r.Use(mw)
		}
		r.Post("/verify", handleVerify(svc))
	})

	r.Post("/orders/{orderID}/code", handleIssue(svc))
	r.Post("/orders/{orderID}/code/resend", handleResend(svc))

	return r
}

func handleVerify(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req verifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PrincipalID == uuid.Nil {
			writeJSON(w, http.StatusBadRequest, verifyResponse{
				Code:    "bad_request",
				Message: "payload and principal_id are required",
			})
			return
		}

		res, err := svc.Present(r.Context(), req.Payload, req.PrincipalID)
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

func handleIssue(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
		if err != nil {
			http.Error(w, "invalid order id", http.StatusBadRequest)
			return
		}

		issued, err := svc.ConfirmPayment(r.Context(), orderID)
		if err != nil {
			http.Error(w, "issuance failed", http.StatusInternalServerError)
			return
		}

		writeIssued(w, issued)
	}
}

func handleResend(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
		if err != nil {
			http.Error(w, "invalid order id", http.StatusBadRequest)
			return
		}

		if err := svc.ResendCode(r.Context(), orderID); err != nil {
			http.Error(w, "resend failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}

func writeIssued(w http.ResponseWriter, issued *redemption.Issued) {
	resp := issueResponse{
		Token:   issued.Record.Token,
		Payload: issued.Payload,
	}
	if issued.ImagePNG != nil {
		resp.ImagePNG = base64.StdEncoding.EncodeToString(issued.ImagePNG)
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
