// mockapi is the in-memory development backend for the portal client. It
// speaks the same wire shapes as the production API, seeds demo data and
// prints every OTP it issues to the console.
package main

import (
	"net/http"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	applogger "github.com/pradhanfinservdev/pradhanportal-client/pkg/logger"
)

func main() {
	logger := applogger.NewLogger()
	defer logger.Sync()

	secret := os.Getenv("MOCKAPI_JWT_SECRET")
	if secret == "" {
		secret = "dev-only-secret"
	}
	addr := os.Getenv("MOCKAPI_ADDRESS")
	if addr == "" {
		addr = ":5000"
	}

	s := &server{store: newStore(), secret: []byte(secret), logger: logger.Named("mockapi")}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	api := e.Group("/api")

	// Open endpoints: authentication plus the applicant-facing case form.
	api.POST("/auth/login", s.login)
	api.POST("/auth/request-otp", s.requestOTP)
	api.POST("/auth/signup", s.signup)
	api.POST("/auth/forgot-password/request-otp", s.forgotPasswordRequest)
	api.POST("/auth/forgot-password/verify", s.forgotPasswordVerify)
	api.GET("/cases/:id/public", s.getCase)
	api.PUT("/cases/:id/public", s.submitCase)

	private := api.Group("", s.requireAuth)
	private.GET("/leads", s.listLeads)
	private.POST("/leads", s.createLead)
	private.PATCH("/leads/:id", s.patchLead)
	private.DELETE("/leads/:id", s.deleteLead)

	private.GET("/cases", s.listCases)
	private.GET("/cases/:id", s.getCase)
	private.PUT("/cases/:id", s.updateCase)
	private.POST("/cases/:id/comment", s.commentCase)
	private.GET("/cases/:id/audit", s.caseAudit)
	private.GET("/cases/:id/documents/archive", s.caseArchive)

	private.GET("/customers", s.listCustomers)
	private.GET("/customers/meta/banks", s.customerBanks)
	private.GET("/customers/meta/statuses", s.customerStatuses)
	private.PATCH("/customers/:id", s.patchCustomer)
	private.DELETE("/customers/:id", s.deleteCustomer)
	private.POST("/customers/:id/kyc/upload", s.uploadCustomerKYC)

	private.GET("/channel-partners", s.listPartners)
	private.GET("/channel-partners/:id", s.getPartner)
	private.POST("/channel-partners", s.createPartner)
	private.DELETE("/channel-partners/:id", s.deletePartner)

	private.GET("/branches", s.listBranches)
	private.GET("/branches/:id", s.getBranch)
	private.POST("/branches", s.createBranch)
	private.DELETE("/branches/:id", s.deleteBranch)

	private.GET("/users", s.listUsers)
	private.POST("/users", s.createUser)
	private.DELETE("/users/:id", s.deleteUser)
	private.PATCH("/users/:id/role", s.patchUserRole)
	private.PATCH("/users/:id/active", s.patchUserActive)
	private.PATCH("/users/:id/password", s.patchUserPassword)

	private.GET("/metrics/overview", s.metricsOverview)

	logger.Info("mockapi listening", zap.String("address", addr))
	logger.Info("seeded admin account", zap.String("email", "admin@pradhan.local"), zap.String("password", "admin123"))
	if err := e.Start(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func (s *server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			return fail(c, http.StatusUnauthorized, "Missing bearer token")
		}
		token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return s.secret, nil
		})
		if err != nil || !token.Valid {
			return fail(c, http.StatusUnauthorized, "Session expired, please sign in again")
		}
		return next(c)
	}
}
