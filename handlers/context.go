// Package handlers, HTTP request/response katmanı.
//
// Handler'lar incedir: body'yi parse eder, service'i çağırır, sonucu
// JSON olarak döner. İş mantığı service katmanındadır, handler'lar
// asla doğrudan DB'ye erişmez.
package handlers

import (
	"net/http"

	"github.com/ogulcan/mezun/models"
	"github.com/ogulcan/mezun/pkg"
)

// contextKey, context.WithValue çakışmalarını önlemek için private tip.
type contextKey string

// UserContextKey, auth middleware'ının doğrulanmış kullanıcıyı
// request context'ine koyduğu anahtar.
const UserContextKey contextKey = "user"

// CurrentUser, context'teki doğrulanmış kullanıcıyı döner.
// Middleware'dan geçmemiş bir route'ta çağrılırsa 401 yazar ve false döner.
func CurrentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok || user == nil {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "authentication required")
		return nil, false
	}
	return user, true
}
