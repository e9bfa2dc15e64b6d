package router

import (
	"github.com/labstack/echo/v4"

	"github.com/mwakyusa/parish-management/internal/handler"
	"github.com/mwakyusa/parish-management/internal/middleware"
	"github.com/mwakyusa/parish-management/internal/paths"
)

var getPost = []string{"GET", "POST"}

// RegisterAdmin registers the admin-scoped pages: the admin dashboard,
// the account-detail and self-edit pages and the admin profile-picture
// endpoints.  Everything requires an authenticated admin.
func RegisterAdmin(e *echo.Echo, d *handler.DashboardHandler, p *handler.ProfileHandler) {
	g := e.Group("/accounts", middleware.RequireAdmin())

	g.GET("/admin_dashboard/", d.Admin)
	g.GET("/superuser/detail/", p.SuperuserDetail)
	g.Match(getPost, "/admin/update/", p.AdminUpdate)

	g.Match(getPost, "/upload_profile_picture/", p.UploadPicture(paths.AdminDashboard))
	g.Match(getPost, "/remove_profile_picture/", p.RemovePicture)
}

// RegisterMember registers the church-member pages.  Each leadership
// occupation gets its own dashboard and upload endpoint; the guard is
// the CHURCH_MEMBER role, occupation only decides which dashboard the
// login flow picks.
func RegisterMember(e *echo.Echo, d *handler.DashboardHandler, p *handler.ProfileHandler) {
	g := e.Group("/accounts", middleware.RequireChurchMember())

	g.GET("/member_dashboard/", d.Member)
	g.GET("/pastor_dashboard/", d.Pastor)
	g.GET("/evangelist_dashboard/", d.Evangelist)
	g.GET("/secretary_dashboard/", d.Secretary)
	g.GET("/accountant_dashboard/", d.Accountant)

	g.Match(getPost, "/member_upload_profile_picture/", p.UploadPicture(paths.MemberDashboard))
	g.Match(getPost, "/pastor_upload_profile_picture/", p.UploadPicture(paths.PastorDashboard))
	g.Match(getPost, "/evangelist_upload_profile_picture/", p.UploadPicture(paths.EvangelistDashboard))
	g.Match(getPost, "/secretary_upload_profile_picture/", p.UploadPicture(paths.SecretaryDashboard))
	g.Match(getPost, "/accountant_upload_profile_picture/", p.UploadPicture(paths.AccountantDashboard))
	g.Match(getPost, "/member_remove_profile_picture/", p.RemovePicture)
}
