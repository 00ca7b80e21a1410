// Package ratelimit — IP bazlı login brute-force koruması.
//
// In-memory tutulur: tek instance deploy'da harici bir store
// (Redis vs.) gerektirmez. Leaf paket — proje içi hiçbir pakete
// bağımlı değildir, handlers ↔ middleware import cycle'ı oluşmaz.
package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// LoginRateLimiter, kayan pencere (sliding window) ile anahtar başına
// deneme sayısını sınırlar. Anahtar pratikte client IP'sidir.
type LoginRateLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	limit    int
	window   time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

// NewLoginRateLimiter, limiter'ı oluşturur ve süresi dolmuş kayıtları
// silen arka plan temizliğini başlatır.
func NewLoginRateLimiter(limit int, window time.Duration) *LoginRateLimiter {
	rl := &LoginRateLimiter{
		attempts: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		stop:     make(chan struct{}),
	}
	go rl.janitor()
	return rl
}

// Allow, deneme kaydeder ve limitin aşılıp aşılmadığını döner.
// false dönerse caller 429 dönmelidir. Başarılı login'de Reset çağrılır,
// yoksa meşru kullanıcı kendi başarısız denemeleriyle bloke olabilir.
func (rl *LoginRateLimiter) Allow(key string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	kept := rl.prune(key, now)
	if len(kept) >= rl.limit {
		return false
	}
	rl.attempts[key] = append(kept, now)
	return true
}

// Reset, anahtarın deneme geçmişini temizler.
func (rl *LoginRateLimiter) Reset(key string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.attempts, key)
}

// RetryAfterSeconds, limit aşılmışsa en eski denemenin pencereden
// çıkmasına kalan süreyi döner. Retry-After header değeri olarak kullanılır.
func (rl *LoginRateLimiter) RetryAfterSeconds(key string) int {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	kept := rl.prune(key, now)
	if len(kept) < rl.limit {
		return 0
	}
	wait := rl.window - now.Sub(kept[0])
	if wait <= 0 {
		return 0
	}
	// Yukarı yuvarla — client eksik beklerse yine 429 yer.
	return int(wait.Seconds()) + 1
}

// Stop, arka plan temizliğini durdurur. Graceful shutdown'da çağrılır.
func (rl *LoginRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// prune, pencere dışına düşmüş denemeleri atar ve kalanları döner.
// Caller lock tutuyor olmalıdır.
func (rl *LoginRateLimiter) prune(key string, now time.Time) []time.Time {
	all := rl.attempts[key]
	cutoff := now.Add(-rl.window)
	i := 0
	for i < len(all) && !all[i].After(cutoff) {
		i++
	}
	kept := all[i:]
	if len(kept) == 0 {
		delete(rl.attempts, key)
	} else if i > 0 {
		rl.attempts[key] = kept
	}
	return kept
}

// janitor, dakikada bir tüm anahtarları tarayıp boşalmış kayıtları siler.
func (rl *LoginRateLimiter) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			rl.mu.Lock()
			for key := range rl.attempts {
				rl.prune(key, now)
			}
			rl.mu.Unlock()
		case <-rl.stop:
			return
		}
	}
}

// ExtractIP, request'ten client IP'sini çıkarır. Uygulama reverse proxy
// arkasında çalıştığında RemoteAddr proxy'nin adresidir — önce
// X-Forwarded-For, sonra X-Real-IP, en son RemoteAddr denenir.
func ExtractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// "client, proxy1, proxy2" — ilk değer gerçek client.
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// FormatRetryMessage, saniyeyi kullanıcıya gösterilecek metne çevirir.
func FormatRetryMessage(seconds int) string {
	if seconds >= 60 {
		return fmt.Sprintf("%d minute(s)", seconds/60)
	}
	return fmt.Sprintf("%d second(s)", seconds)
}
