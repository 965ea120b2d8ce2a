package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.avresk.dev/warden/wardenhash"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name, label string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}

		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetValue() == label {
					return m.GetCounter().GetValue()
				}
			}
		}
	}

	return 0
}

func TestCollector(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLogin("ok")
	c.RecordLogin("ok")
	c.RecordLogin("rejected")
	c.RecordSignup("ok")
	c.RecordHashDuration(25 * time.Millisecond)

	assert.Equal(t, float64(2), counterValue(t, reg, "warden_login_total", "ok"))
	assert.Equal(t, float64(1), counterValue(t, reg, "warden_login_total", "rejected"))
	assert.Equal(t, float64(1), counterValue(t, reg, "warden_signup_total", "ok"))
}

func TestInstrumentHasher(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	h := c.InstrumentHasher(wardenhash.NewArgon2Hasher(wardenhash.Argon2Options{
		Memory:  1024,
		Time:    1,
		Threads: 1,
	}))

	salt, err := h.GenerateSalt()
	require.NoError(t, err)

	digest, err := h.Hash("no-more-bad-passwords", salt)
	require.NoError(t, err)
	assert.NotEmpty(t, digest)

	families, err := reg.Gather()
	require.NoError(t, err)

	var observed bool

	for _, mf := range families {
		if mf.GetName() == "warden_password_hash_seconds" {
			require.Len(t, mf.GetMetric(), 1)
			assert.Equal(t, uint64(1), mf.GetMetric()[0].GetHistogram().GetSampleCount())

			observed = true
		}
	}

	assert.True(t, observed, "hash duration was not recorded")
}
