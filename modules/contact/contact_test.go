package contact_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gfschwingel/coppers/modules/contact"
	"github.com/gfschwingel/coppers/pkg/email"
	"github.com/gfschwingel/coppers/pkg/validator"
)

type fakeSender struct {
	sent []email.SendParams
	err  error
}

func (f *fakeSender) SendEmail(_ context.Context, params email.SendParams) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, params)
	return nil
}

func validForm() contact.Form {
	return contact.Form{
		Name:        "Alice",
		Email:       "alice@example.com",
		PhoneNumber: "+55 11 99999-0000",
		Message:     "Hello there",
	}
}

func TestService_Relay(t *testing.T) {
	t.Parallel()

	t.Run("relays to the inbox with the submitter in the body", func(t *testing.T) {
		t.Parallel()

		sender := &fakeSender{}
		svc := contact.NewService(sender, "inbox@example.com", nil)

		require.NoError(t, svc.Relay(context.Background(), validForm()))
		require.Len(t, sender.sent, 1)
		sent := sender.sent[0]
		assert.Equal(t, "inbox@example.com", sent.To)
		assert.Contains(t, sent.BodyText, "alice@example.com")
		assert.Contains(t, sent.BodyText, "Hello there")
	})

	t.Run("every field is required", func(t *testing.T) {
		t.Parallel()

		sender := &fakeSender{}
		svc := contact.NewService(sender, "inbox@example.com", nil)

		for _, mutate := range []func(*contact.Form){
			func(f *contact.Form) { f.Name = "" },
			func(f *contact.Form) { f.Email = "" },
			func(f *contact.Form) { f.PhoneNumber = "" },
			func(f *contact.Form) { f.Message = "" },
		} {
			f := validForm()
			mutate(&f)
			err := svc.Relay(context.Background(), f)
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
		}
		assert.Empty(t, sender.sent)
	})

	t.Run("delivery failure surfaces as an error", func(t *testing.T) {
		t.Parallel()

		sender := &fakeSender{err: errors.New("smtp down")}
		svc := contact.NewService(sender, "inbox@example.com", nil)

		err := svc.Relay(context.Background(), validForm())
		require.Error(t, err)
	})
}

func TestHandler_SendForm(t *testing.T) {
	t.Parallel()

	post := func(t *testing.T, h http.Handler, form contact.Form) *httptest.ResponseRecorder {
		t.Helper()
		body, err := json.Marshal(form)
		require.NoError(t, err)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/send-form", bytes.NewReader(body))
		h.ServeHTTP(rec, req)
		return rec
	}

	t.Run("valid form is accepted", func(t *testing.T) {
		t.Parallel()

		sender := &fakeSender{}
		h := contact.NewHandler(contact.NewService(sender, "inbox@example.com", nil)).Router()

		rec := post(t, h, validForm())
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing field is a bad request", func(t *testing.T) {
		t.Parallel()

		sender := &fakeSender{}
		h := contact.NewHandler(contact.NewService(sender, "inbox@example.com", nil)).Router()

		f := validForm()
		f.Message = ""
		rec := post(t, h, f)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, sender.sent)
	})

	t.Run("delivery failure does not leak internals", func(t *testing.T) {
		t.Parallel()

		sender := &fakeSender{err: errors.New("postmark: token rejected")}
		h := contact.NewHandler(contact.NewService(sender, "inbox@example.com", nil)).Router()

		rec := post(t, h, validForm())
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "postmark")
	})
}
