package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenRecordFresh(t *testing.T) {
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{"well before expiry", now.Add(time.Hour), true},
		{"just outside the skew", now.Add(RefreshSkew + time.Second), true},
		{"exactly at the skew boundary", now.Add(RefreshSkew), false},
		{"inside the skew", now.Add(30 * time.Second), false},
		{"already expired", now.Add(-time.Minute), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := TokenRecord{ExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.want, record.Fresh(now))
		})
	}
}
