package retry

import (
	"errors"
	"testing"
	"time"

	storerrors "github.com/jonwraymond/storops/errors"
)

func transientContext(attempt int) Context {
	return Context{
		Attempt:            attempt,
		LastError:          &storerrors.ServiceError{StatusCode: 500},
		Location:           Primary,
		Mode:               PrimaryOnly,
		PrimaryAvailable:   true,
		SecondaryAvailable: false,
	}
}

func TestNewExponentialRetry(t *testing.T) {
	r := NewExponentialRetry(ExponentialConfig{})

	if r.config.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", r.config.MaxAttempts)
	}
	if r.config.Delta != 4*time.Second {
		t.Errorf("Delta = %v, want 4s", r.config.Delta)
	}
	if r.config.MaxDelay != 120*time.Second {
		t.Errorf("MaxDelay = %v, want 120s", r.config.MaxDelay)
	}
}

func TestExponentialRetry_BackoffGrowth(t *testing.T) {
	r := NewExponentialRetry(ExponentialConfig{
		MaxAttempts: 10,
		Delta:       4 * time.Second,
		NoJitter:    true,
	})

	wants := []time.Duration{4 * time.Second, 8 * time.Second, 16 * time.Second, 32 * time.Second}
	for i, want := range wants {
		d := r.ShouldRetry(transientContext(i + 1))
		if !d.Retry {
			t.Fatalf("attempt %d: Retry = false, want true", i+1)
		}
		if d.Backoff != want {
			t.Errorf("attempt %d: Backoff = %v, want %v", i+1, d.Backoff, want)
		}
	}
}

func TestExponentialRetry_MaxDelayCap(t *testing.T) {
	r := NewExponentialRetry(ExponentialConfig{
		MaxAttempts: 20,
		Delta:       10 * time.Second,
		MaxDelay:    30 * time.Second,
		NoJitter:    true,
	})

	d := r.ShouldRetry(transientContext(8))
	if d.Backoff != 30*time.Second {
		t.Errorf("Backoff = %v, want capped 30s", d.Backoff)
	}
}

func TestExponentialRetry_ExhaustsAttempts(t *testing.T) {
	r := NewExponentialRetry(ExponentialConfig{MaxAttempts: 3, NoJitter: true})

	if d := r.ShouldRetry(transientContext(2)); !d.Retry {
		t.Error("attempt 2 of 3: Retry = false, want true")
	}
	if d := r.ShouldRetry(transientContext(3)); d.Retry {
		t.Error("attempt 3 of 3: Retry = true, want false")
	}
}

func TestExponentialRetry_NonRetryable(t *testing.T) {
	r := NewExponentialRetry(ExponentialConfig{NoJitter: true})

	rc := transientContext(1)
	rc.LastError = &storerrors.ServiceError{StatusCode: 403, Code: "AuthorizationFailure"}

	if d := r.ShouldRetry(rc); d.Retry {
		t.Error("403: Retry = true, want false")
	}
}

func TestExponentialRetry_Cancelled(t *testing.T) {
	r := NewExponentialRetry(ExponentialConfig{NoJitter: true})

	rc := transientContext(1)
	rc.LastError = storerrors.NewCancelledError(errors.New("caller gave up"))

	if d := r.ShouldRetry(rc); d.Retry {
		t.Error("cancelled: Retry = true, want false")
	}
}

func TestExponentialRetry_ThrottlingHonorsRetryAfter(t *testing.T) {
	r := NewExponentialRetry(ExponentialConfig{
		MaxAttempts: 5,
		Delta:       4 * time.Second,
		MaxDelay:    120 * time.Second,
		NoJitter:    true,
	})

	t.Run("server wait stretches the delay", func(t *testing.T) {
		rc := transientContext(1)
		rc.LastError = &storerrors.ServiceError{StatusCode: 503, RetryAfter: 10 * time.Second}

		d := r.ShouldRetry(rc)
		if !d.Retry {
			t.Fatal("Retry = false, want true")
		}
		if d.Backoff != 10*time.Second {
			t.Errorf("Backoff = %v, want 10s", d.Backoff)
		}
	})

	t.Run("server wait is capped", func(t *testing.T) {
		rc := transientContext(1)
		rc.LastError = &storerrors.ServiceError{StatusCode: 503, RetryAfter: 500 * time.Second}

		d := r.ShouldRetry(rc)
		if d.Backoff != 120*time.Second {
			t.Errorf("Backoff = %v, want capped 120s", d.Backoff)
		}
	})

	t.Run("shorter server wait is ignored", func(t *testing.T) {
		rc := transientContext(1)
		rc.LastError = &storerrors.ServiceError{StatusCode: 503, RetryAfter: time.Second}

		d := r.ShouldRetry(rc)
		if d.Backoff != 4*time.Second {
			t.Errorf("Backoff = %v, want 4s", d.Backoff)
		}
	})
}

func TestExponentialRetry_FlipsToSecondary(t *testing.T) {
	r := NewExponentialRetry(ExponentialConfig{MaxAttempts: 5, NoJitter: true})

	rc := Context{
		Attempt:            1,
		LastError:          &storerrors.ServiceError{StatusCode: 500},
		Location:           Primary,
		Mode:               PrimaryThenSecondary,
		PrimaryAvailable:   true,
		SecondaryAvailable: true,
	}

	d := r.ShouldRetry(rc)
	if !d.Retry {
		t.Fatal("Retry = false, want true")
	}
	if d.Target != Secondary {
		t.Errorf("Target = %v, want Secondary", d.Target)
	}
}

func TestExponentialRetry_NoAvailableLocation(t *testing.T) {
	r := NewExponentialRetry(ExponentialConfig{MaxAttempts: 5, NoJitter: true})

	rc := transientContext(1)
	rc.PrimaryAvailable = false

	if d := r.ShouldRetry(rc); d.Retry {
		t.Error("no available location: Retry = true, want false")
	}
}

func TestExponentialRetry_Jitter(t *testing.T) {
	r := NewExponentialRetry(ExponentialConfig{MaxAttempts: 5, Delta: 4 * time.Second})

	for i := 0; i < 50; i++ {
		d := r.ShouldRetry(transientContext(1))
		if d.Backoff < 4*time.Second || d.Backoff >= 5*time.Second {
			t.Fatalf("jittered Backoff = %v, want in [4s, 5s)", d.Backoff)
		}
	}
}

func TestNewLinearRetry(t *testing.T) {
	r := NewLinearRetry(LinearConfig{})

	if r.config.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", r.config.MaxAttempts)
	}
	if r.config.Delta != 30*time.Second {
		t.Errorf("Delta = %v, want 30s", r.config.Delta)
	}
}

func TestLinearRetry_FixedInterval(t *testing.T) {
	r := NewLinearRetry(LinearConfig{
		MaxAttempts: 4,
		Delta:       2 * time.Second,
		NoJitter:    true,
	})

	for attempt := 1; attempt <= 3; attempt++ {
		d := r.ShouldRetry(transientContext(attempt))
		if !d.Retry {
			t.Fatalf("attempt %d: Retry = false, want true", attempt)
		}
		if d.Backoff != 2*time.Second {
			t.Errorf("attempt %d: Backoff = %v, want 2s", attempt, d.Backoff)
		}
	}

	if d := r.ShouldRetry(transientContext(4)); d.Retry {
		t.Error("attempt 4 of 4: Retry = true, want false")
	}
}

func TestNoRetry(t *testing.T) {
	r := NewNoRetry()

	if d := r.ShouldRetry(transientContext(1)); d.Retry {
		t.Error("NoRetry: Retry = true, want false")
	}
}

func TestDecisionDeterminism(t *testing.T) {
	r := NewExponentialRetry(ExponentialConfig{MaxAttempts: 5, NoJitter: true})

	rc := Context{
		Attempt:            2,
		LastError:          &storerrors.ServiceError{StatusCode: 503, RetryAfter: 7 * time.Second},
		Location:           Secondary,
		Mode:               SecondaryThenPrimary,
		PrimaryAvailable:   true,
		SecondaryAvailable: true,
	}

	first := r.ShouldRetry(rc)
	second := r.ShouldRetry(rc)

	if first != second {
		t.Errorf("decisions differ: %+v vs %+v", first, second)
	}
}
