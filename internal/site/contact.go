package site

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/daviddao/folio/internal/contact"
	"github.com/daviddao/folio/internal/content"
	"github.com/daviddao/folio/internal/types"
)

// MsgTooManyRequests is returned to rate-limited clients.
const MsgTooManyRequests = "Too many messages. Please wait a minute and try again."

const successBanner = "Thank you for your message! I'll get back to you soon."

type contactView struct {
	Status       contact.Status
	Data         contact.FormData
	Errors       map[string]string
	Banner       string
	RevertMillis int64
	Disabled     bool
}

func (s *Server) handleContactForm(w http.ResponseWriter, r *http.Request) {
	s.renderContact(w, r, http.StatusOK, contactView{Status: contact.StatusIdle, Errors: map[string]string{}}, 0)
}

// handleContactSubmit runs one submission cycle of the form controller
// against the inbox and renders the outcome.
func (s *Server) handleContactSubmit(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow(clientKey(r)) {
		view := contactView{
			Status:       contact.StatusError,
			Data:         formFromRequest(r),
			Errors:       map[string]string{},
			Banner:       MsgTooManyRequests,
			RevertMillis: s.revert.Milliseconds(),
		}
		s.renderContact(w, r, http.StatusTooManyRequests, view, 0)
		return
	}

	ctl := contact.NewController(contact.SubmitterFunc(func(ctx context.Context, d contact.FormData) error {
		_, err := s.accept(ctx, d, r)
		return err
	}), contact.WithRevertDelay(s.revert), contact.WithLogger(s.log))
	defer ctl.Close()

	d := formFromRequest(r)
	for _, f := range contact.Fields {
		ctl.Set(f, d.Get(f))
	}

	err := ctl.Submit(r.Context())
	view := contactView{
		Status:   ctl.Status(),
		Data:     ctl.Data(),
		Errors:   errorMap(ctl.Errors()),
		Disabled: !ctl.CanSubmit(),
	}

	var verr *contact.ValidationError
	switch {
	case errors.As(err, &verr):
		s.renderContact(w, r, http.StatusUnprocessableEntity, view, 0)
	case err != nil:
		view.Banner = contact.FailureMessage
		view.RevertMillis = s.revert.Milliseconds()
		s.renderContact(w, r, http.StatusInternalServerError, view, 0)
	default:
		view.Banner = successBanner
		s.renderContact(w, r, http.StatusOK, view, refreshSeconds(s.revert))
	}
}

func (s *Server) renderContact(w http.ResponseWriter, r *http.Request, status int, view contactView, refresh int) {
	p := s.newPage(r, s.titled("Contact"), content.StateLoaded, view)
	p.Description = "Get in touch with me for collaboration or inquiries."
	// The form has no CMS content behind it.
	p.State = ""
	p.Refresh = refresh
	s.render(w, status, "contact", p)
}

// handleContactAPI accepts a JSON submission.
//
//	201 {"id": "..."}            stored
//	400 {"error": "..."}         malformed body
//	422 {"errors": {field: msg}} validation failed
//	429 {"error": "..."}         rate limited
//	500 {"error": "..."}         could not be stored
func (s *Server) handleContactAPI(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow(clientKey(r)) {
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": MsgTooManyRequests})
		return
	}

	var d contact.FormData
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxContactBody))
	if err := dec.Decode(&d); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	if errs := contact.Validate(d); len(errs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": errorMap(errs)})
		return
	}

	m, err := s.accept(r.Context(), d, r)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": contact.FailureMessage})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": m.ID})
}

// accept stores a valid submission and notifies the owner in the background.
func (s *Server) accept(ctx context.Context, d contact.FormData, r *http.Request) (*types.ContactMessage, error) {
	m := &types.ContactMessage{
		ID:         uuid.NewString(),
		Name:       d.Name,
		Email:      d.Email,
		Subject:    d.Subject,
		Message:    d.Message,
		RemoteAddr: clientKey(r),
		UserAgent:  r.UserAgent(),
	}
	if err := s.inbox.InsertContactMessage(ctx, m); err != nil {
		s.log.Error("store contact message failed", zap.Error(err))
		return nil, fmt.Errorf("store contact message: %w", err)
	}
	s.log.Info("contact message received", zap.String("id", m.ID), zap.String("subject", m.Subject))
	s.notify(m)
	return m, nil
}

func (s *Server) notify(m *types.ContactMessage) {
	if s.notifier == nil {
		return
	}
	s.notifications.Go(func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		err := s.notifier.Notify(ctx, m)
		if err != nil {
			s.log.Warn("notify owner failed", zap.String("id", m.ID), zap.Error(err))
		}
		if merr := s.inbox.MarkNotified(context.Background(), m.ID, err); merr != nil {
			s.log.Error("record notification failed", zap.String("id", m.ID), zap.Error(merr))
		}
	})
}

func formFromRequest(r *http.Request) contact.FormData {
	return contact.FormData{
		Name:    r.PostFormValue(string(contact.FieldName)),
		Email:   r.PostFormValue(string(contact.FieldEmail)),
		Subject: r.PostFormValue(string(contact.FieldSubject)),
		Message: r.PostFormValue(string(contact.FieldMessage)),
	}
}

func errorMap(errs contact.Errors) map[string]string {
	out := make(map[string]string, len(errs))
	for f, msg := range errs {
		out[string(f)] = msg
	}
	return out
}

func refreshSeconds(d time.Duration) int {
	n := int(d.Seconds())
	if n < 1 {
		n = 1
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
