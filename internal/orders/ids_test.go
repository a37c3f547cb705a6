package orders

import (
	"regexp"
	"strings"
	"testing"
	"time"
)

var (
	orderNumberRE    = regexp.MustCompile(`^HIK[A-Z0-9]+$`)
	trackingNumberRE = regexp.MustCompile(`^DX[A-Z0-9]+AE$`)
)

func TestGenerate_Format(t *testing.T) {
	g := NewGenerator()

	orderNum, trackingNum := g.Generate()
	if !orderNumberRE.MatchString(orderNum) {
		t.Fatalf("order number %q does not match %s", orderNum, orderNumberRE)
	}
	if !trackingNumberRE.MatchString(trackingNum) {
		t.Fatalf("tracking number %q does not match %s", trackingNum, trackingNumberRE)
	}
	if strings.HasPrefix(trackingNum, "HIK") || strings.HasPrefix(orderNum, "DX") {
		t.Fatalf("identifier namespaces overlap: %q / %q", orderNum, trackingNum)
	}
}

func TestGenerate_UniqueWithinOneMillisecond(t *testing.T) {
	g := NewGenerator()
	// freeze the clock so every pair lands in the same millisecond window
	frozen := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	g.nowFunc = func() time.Time { return frozen }

	const n = 10000
	orderSeen := make(map[string]bool, n)
	trackingSeen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		orderNum, trackingNum := g.Generate()
		if orderSeen[orderNum] {
			t.Fatalf("duplicate order number at i=%d: %s", i, orderNum)
		}
		if trackingSeen[trackingNum] {
			t.Fatalf("duplicate tracking number at i=%d: %s", i, trackingNum)
		}
		orderSeen[orderNum] = true
		trackingSeen[trackingNum] = true
	}
}

func TestStatusFor(t *testing.T) {
	if got := StatusFor(PaymentMethodCOD); got != StatusPendingPayment {
		t.Fatalf("cod: expected %s, got %s", StatusPendingPayment, got)
	}
	if got := StatusFor("card"); got != StatusProcessing {
		t.Fatalf("card: expected %s, got %s", StatusProcessing, got)
	}
}
