package errcodes

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil", nil, ExitOK},
		{"plain error", errors.New("boom"), ExitInternal},
		{"input", MissingFile("models.ts"), ExitInput},
		{"wrapped input", errors.Wrap(MissingArgument("names"), "remove"), ExitInput},
		{"not matched", NotMatched("Adan"), ExitMatch},
		{"no change", NoChange("Adan"), ExitMatch},
		{"remote", Remote("upload", 500, "server error"), ExitRemote},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExitCode(tt.err))
		})
	}
}

func TestKindName(t *testing.T) {
	assert.Equal(t, "input_error", KindName(MissingCredentials("CLOUDINARY_API_KEY")))
	assert.Equal(t, "matching_error", KindName(NoChange("Adan")))
	assert.Equal(t, "remote_error", KindName(Remote("lookup", 502, "bad gateway")))
	assert.Equal(t, "internal_error", KindName(errors.New("boom")))
}

func TestErrorIs(t *testing.T) {
	err := errors.WithStack(NotMatched("Adan"))
	assert.True(t, errors.Is(err, NotMatched("Adan")))
	assert.False(t, errors.Is(err, NotMatched("Pilar")))
}

func TestHandle(t *testing.T) {
	ctx := logger.New().WithContext(context.Background())
	assert.Equal(t, ExitOK, Handle(ctx, nil))
	assert.Equal(t, ExitMatch, Handle(ctx, NoChange("Adan")))
}
