package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zapdesk/statusd/internal/models"
	"github.com/zapdesk/statusd/internal/notifier"
	"github.com/zapdesk/statusd/internal/store"
)

type subscribeRequest struct {
	Email          string              `json:"email"`
	TelegramChatID string              `json:"telegram_chat_id"`
	NotifyOn       models.NotifyPolicy `json:"notify_on"`
	Services       []int               `json:"services"`
}

// HandleSubscribe signs up a new subscriber. Email subscribers get a
// verification mail; telegram-only subscribers are verified
// immediately since that channel has no mailbox to confirm.
func HandleSubscribe(st *store.Store, n *notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req subscribeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if req.Email == "" && req.TelegramChatID == "" {
			writeError(w, http.StatusBadRequest, "email or telegram chat id is required")
			return
		}

		if req.Email != "" {
			existing, err := st.SubscriberByEmail(ctx, req.Email)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "failed to check existing subscriber")
				return
			}
			if existing != nil {
				writeError(w, http.StatusBadRequest, "email already subscribed")
				return
			}
		}

		subscriber, err := st.CreateSubscriber(ctx, store.NewSubscriber{
			Email:          req.Email,
			TelegramChatID: req.TelegramChatID,
			NotifyOn:       req.NotifyOn,
			Services:       req.Services,
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to create subscriber")
			return
		}

		message := "subscription created"
		if subscriber.Email != "" {
			if err := n.SendVerification(ctx, subscriber); err != nil {
				log.Printf("[api] failed to send verification mail to %s: %v", subscriber.Email, err)
			}
			message = "check your email to confirm the subscription"
		} else if subscriber.VerificationToken != nil {
			if _, err := st.VerifySubscriber(ctx, *subscriber.VerificationToken); err != nil {
				writeError(w, http.StatusInternalServerError, "failed to verify subscriber")
				return
			}
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": message,
		})
	}
}

// HandleVerify consumes a verification token. Re-using a consumed
// token is a no-op, not an error.
func HandleVerify(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")

		subscriber, err := st.VerifySubscriber(r.Context(), token)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to verify subscription")
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":  true,
			"verified": subscriber != nil,
		})
	}
}

// HandleUnsubscribe removes the subscriber holding the token.
func HandleUnsubscribe(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")

		removed, err := st.Unsubscribe(r.Context(), token)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to unsubscribe")
			return
		}
		if !removed {
			writeError(w, http.StatusNotFound, "subscription not found")
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	}
}
