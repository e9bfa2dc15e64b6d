// Package paths is the route-name registry of the application.  It
// knows the canonical path of every named route, which paths must never
// be remembered as a "last visited" location, and which dashboard a
// user lands on after logging in.  It is a leaf package so that both
// middleware and handlers can share it without import cycles.
package paths

import (
	"log"
	"sync"

	"github.com/mwakyusa/parish-management/internal/model"
)

// Canonical paths for the named routes of the account core and the
// collaborators it redirects to.
const (
	RootLogin           = "/"
	AccountsRoot        = "/accounts/"
	Login               = "/accounts/login/"
	Logout              = "/accounts/logout/"
	RequestAccount      = "/accounts/request-account/"
	ForgotPassword      = "/accounts/forgot-password/"
	AdminDashboard      = "/accounts/admin_dashboard/"
	SecretaryDashboard  = "/accounts/secretary_dashboard/"
	AccountantDashboard = "/accounts/accountant_dashboard/"
	MemberDashboard     = "/accounts/member_dashboard/"
	PastorDashboard     = "/accounts/pastor_dashboard/"
	EvangelistDashboard = "/accounts/evangelist_dashboard/"
	SuperuserDetail     = "/accounts/superuser/detail/"
	AdminUpdate         = "/accounts/admin/update/"
	PublicNewsList      = "/news/public-news/"
)

// Prefixes that are never tracked.
const (
	StaticPrefix = "/static/"
	MediaPrefix  = "/media/"
)

// named maps route names to their paths.  Lookups through Reverse keep
// the ignored-set definition tolerant of routes that do not exist in
// this build (e.g. the retired "welcome" page).
var named = map[string]string{
	"root_login":           RootLogin,
	"login":                Login,
	"logout":               Logout,
	"request_account":      RequestAccount,
	"forgot_password":      ForgotPassword,
	"admin_dashboard":      AdminDashboard,
	"secretary_dashboard":  SecretaryDashboard,
	"accountant_dashboard": AccountantDashboard,
	"member_dashboard":     MemberDashboard,
	"pastor_dashboard":     PastorDashboard,
	"evangelist_dashboard": EvangelistDashboard,
	"superuser_detail":     SuperuserDetail,
	"admin_update":         AdminUpdate,
	"public_news_list":     PublicNewsList,
}

// Reverse resolves a route name to its path.  The second return value
// is false when no route with that name is registered.
func Reverse(name string) (string, bool) {
	p, ok := named[name]
	return p, ok
}

var (
	ignoredOnce sync.Once
	ignored     map[string]struct{}
)

// IgnoredPaths returns the set of paths that must never be stored as a
// last-visited path nor used as a redirect target.  The set is built
// lazily on first use and cached: it is derived from route names, and
// names that do not resolve ("welcome" was removed from the route
// table) are silently skipped rather than treated as errors.
func IgnoredPaths() map[string]struct{} {
	ignoredOnce.Do(func() {
		ignored = map[string]struct{}{
			RootLogin:    {},
			AccountsRoot: {},
			Login:        {},
		}
		for _, name := range []string{
			"login", "request_account", "forgot_password",
			"welcome", "public_news_list", "root_login",
		} {
			if p, ok := Reverse(name); ok {
				ignored[p] = struct{}{}
			}
		}
	})
	return ignored
}

// IsIgnored reports whether path belongs to the ignored set.
func IsIgnored(path string) bool {
	_, ok := IgnoredPaths()[path]
	return ok
}

// SafeLastPath returns stored when it is safe to redirect there from
// current, and "" otherwise.  A stored path is unsafe when it is empty,
// in the ignored set, or equal to the current request path (which would
// loop).
func SafeLastPath(current, stored string) string {
	if stored == "" || stored == current || IsIgnored(stored) {
		return ""
	}
	return stored
}

// PostLoginTarget picks the landing page for a freshly authenticated
// user.  It is a pure function of the user's role flags and the
// occupation of their optional leader record (empty string when the
// member holds no leadership).  First match wins:
//
//	superuser or ADMIN                       -> admin dashboard
//	member + "Senior Pastor"                 -> pastor dashboard
//	member + "Evangelist"                    -> evangelist dashboard
//	member + "Parish Council Secretary"      -> secretary dashboard
//	member + "Parish Treasurer"              -> accountant dashboard
//	member (any other occupation, or none)   -> member dashboard
//	anything else                            -> login
//
// A leader occupation with no dashboard of its own deliberately falls
// through to the member dashboard; that case is logged so it can be
// spotted in production.
func PostLoginTarget(u *model.User, occupation string) string {
	switch {
	case u.IsSuperuser || u.Role == model.RoleAdmin:
		return AdminDashboard
	case u.Role == model.RoleChurchMember && occupation == model.OccupationSeniorPastor:
		return PastorDashboard
	case u.Role == model.RoleChurchMember && occupation == model.OccupationEvangelist:
		return EvangelistDashboard
	case u.Role == model.RoleChurchMember && occupation == model.OccupationCouncilSecretary:
		return SecretaryDashboard
	case u.Role == model.RoleChurchMember && occupation == model.OccupationParishTreasurer:
		return AccountantDashboard
	case u.Role == model.RoleChurchMember:
		if occupation != "" {
			log.Printf("paths: no dashboard mapped for occupation %q; falling back to member dashboard", occupation)
		}
		return MemberDashboard
	default:
		return Login
	}
}
