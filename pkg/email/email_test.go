package email_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gfschwingel/coppers/pkg/email"
)

func TestSendParamsValidate(t *testing.T) {
	t.Parallel()

	valid := email.SendParams{
		To:       "user@example.com",
		Subject:  "Hello",
		BodyText: "body",
	}

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, valid.Validate())
	})

	t.Run("bad recipient", func(t *testing.T) {
		t.Parallel()
		p := valid
		p.To = "not-an-address"
		require.ErrorIs(t, p.Validate(), email.ErrInvalidParams)
	})

	t.Run("missing subject", func(t *testing.T) {
		t.Parallel()
		p := valid
		p.Subject = ""
		require.ErrorIs(t, p.Validate(), email.ErrInvalidParams)
	})

	t.Run("missing body", func(t *testing.T) {
		t.Parallel()
		p := valid
		p.BodyText = ""
		p.BodyHTML = ""
		require.ErrorIs(t, p.Validate(), email.ErrInvalidParams)
	})
}

func TestNewPostmarkSender(t *testing.T) {
	t.Parallel()

	t.Run("requires server token", func(t *testing.T) {
		t.Parallel()
		_, err := email.NewPostmarkSender(email.Config{
			PostmarkAccountToken: "acc",
			SenderEmail:          "noreply@example.com",
		})
		require.ErrorIs(t, err, email.ErrInvalidConfig)
	})

	t.Run("requires valid sender address", func(t *testing.T) {
		t.Parallel()
		_, err := email.NewPostmarkSender(email.Config{
			PostmarkServerToken:  "srv",
			PostmarkAccountToken: "acc",
			SenderEmail:          "nope",
		})
		require.ErrorIs(t, err, email.ErrInvalidConfig)
	})

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()
		sender, err := email.NewPostmarkSender(email.Config{
			PostmarkServerToken:  "srv",
			PostmarkAccountToken: "acc",
			SenderEmail:          "noreply@example.com",
		})
		require.NoError(t, err)
		require.NotNil(t, sender)
	})
}

func TestDevSender(t *testing.T) {
	t.Parallel()

	t.Run("writes message to disk", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		sender := email.NewDevSender(dir)

		err := sender.SendEmail(context.Background(), email.SendParams{
			To:       "user@example.com",
			Subject:  "Password reset",
			BodyText: "click the link",
			Tag:      "password-reset",
		})
		require.NoError(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)

		data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
		require.NoError(t, err)

		var envelope map[string]any
		require.NoError(t, json.Unmarshal(data, &envelope))
		assert.Equal(t, "user@example.com", envelope["to"])
		assert.Equal(t, "Password reset", envelope["subject"])
		assert.Equal(t, "click the link", envelope["body_text"])
	})

	t.Run("rejects invalid params", func(t *testing.T) {
		t.Parallel()
		sender := email.NewDevSender(t.TempDir())
		err := sender.SendEmail(context.Background(), email.SendParams{To: "junk"})
		require.ErrorIs(t, err, email.ErrInvalidParams)
	})
}
