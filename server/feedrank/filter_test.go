package feedrank

import (
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/openlens/trustfeed/internal/errors"
)

func TestCompileFilterRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{"syntax error", "love >="},
		{"unknown variable", "followers > 10"},
		{"non-boolean result", "love + trust"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileFilter(tt.expr)
			require.Error(t, err)
			require.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidArgument))
		})
	}
}

func TestFilterMatch(t *testing.T) {
	item := &Item{
		Cid:       "bafytestrecord0000000001",
		Type:      "article",
		Publisher: "did:example:alice",
		Love:      0.8,
		Trust:     0.4,
	}

	tests := []struct {
		expr string
		want bool
	}{
		{`type == "article"`, true},
		{`type == "note"`, false},
		{`love >= 0.5`, true},
		{`trust >= 0.5`, false},
		{`love >= 0.5 && publisher.startsWith("did:example:")`, true},
		{`cid.size() > 0`, true},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			filter, err := CompileFilter(tt.expr)
			require.NoError(t, err)
			require.Equal(t, tt.want, filter.Match(item))
		})
	}
}
