package orders

import (
	"crypto/rand"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

const (
	orderPrefix      = "HIK"
	trackingPrefix   = "DX"
	trackingSuffix   = "AE"
	randomSuffixLen  = 4
	base36UpperChars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// Generator mints order and tracking numbers. Each number combines the
// millisecond epoch, a per-process sequence, and a random suffix: the
// sequence makes numbers minted in the same millisecond distinct within a
// process, the random suffix guards against collisions across processes.
type Generator struct {
	seq     atomic.Uint64
	nowFunc func() time.Time
}

// NewGenerator returns a Generator using the wall clock.
func NewGenerator() *Generator {
	return &Generator{nowFunc: time.Now}
}

// Generate mints one order number / tracking number pair. The two live in
// distinct namespaces (HIK… vs DX…AE) and carry independent random suffixes,
// so downstream systems can never mistake one for the other.
func (g *Generator) Generate() (orderNumber, trackingNumber string) {
	millis := g.nowFunc().UnixMilli()
	epoch := strings.ToUpper(strconv.FormatInt(millis, 36))
	seq := strings.ToUpper(strconv.FormatUint(g.seq.Add(1), 36))

	orderNumber = orderPrefix + epoch + seq + randomBase36(randomSuffixLen)
	trackingNumber = trackingPrefix + epoch + seq + randomBase36(randomSuffixLen) + trackingSuffix
	return orderNumber, trackingNumber
}

func randomBase36(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; fall back to the
		// clock so generation still returns something unique-ish.
		nano := strconv.FormatInt(time.Now().UnixNano(), 36)
		return strings.ToUpper(nano[len(nano)-n:])
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = base36UpperChars[int(b)%len(base36UpperChars)]
	}
	return string(out)
}
