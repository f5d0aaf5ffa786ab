package main

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/pradhanfinservdev/pradhanportal-client/internal/doctree"
	"github.com/pradhanfinservdev/pradhanportal-client/internal/dto"
	"github.com/pradhanfinservdev/pradhanportal-client/internal/session"
)

type server struct {
	store  *memStore
	secret []byte
	logger *zap.Logger
}

func fail(c echo.Context, code int, message string) error {
	return c.JSON(code, map[string]string{"message": message})
}

// --- auth ---

func (s *server) login(c echo.Context) error {
	var payload dto.LoginDTO
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid login payload")
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for _, user := range s.store.users {
		if !strings.EqualFold(user.Email, payload.Email) {
			continue
		}
		if !user.IsActive {
			return fail(c, http.StatusForbidden, "Account is deactivated")
		}
		if bcrypt.CompareHashAndPassword([]byte(s.store.passwords[user.ID]), []byte(payload.Password)) != nil {
			break
		}
		claims := jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(s.secret)
		if err != nil {
			return fail(c, http.StatusInternalServerError, "Could not sign token")
		}
		return c.JSON(http.StatusOK, dto.LoginResultDTO{
			Token: token,
			User:  session.Profile{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role},
		})
	}
	return fail(c, http.StatusUnauthorized, "Invalid email or password")
}

func (s *server) issueOTP(key string) string {
	code := fmt.Sprintf("%06d", time.Now().UnixNano()%1000000)
	s.store.otps[key] = otpEntry{Code: code, Expires: time.Now().Add(5 * time.Minute)}
	// Printed so the developer can read it off the console.
	s.logger.Info("OTP issued", zap.String("key", key), zap.String("code", code))
	return code
}

func (s *server) checkOTP(key, code string) bool {
	entry, ok := s.store.otps[key]
	if !ok || time.Now().After(entry.Expires) || entry.Code != code {
		return false
	}
	delete(s.store.otps, key)
	return true
}

func (s *server) requestOTP(c echo.Context) error {
	var payload dto.RequestOTPDTO
	if err := c.Bind(&payload); err != nil || payload.Purpose == "" {
		return fail(c, http.StatusBadRequest, "A purpose is required")
	}
	s.store.mu.Lock()
	s.issueOTP(payload.Purpose)
	s.store.mu.Unlock()
	return c.JSON(http.StatusOK, map[string]string{"message": "OTP sent"})
}

func (s *server) signup(c echo.Context) error {
	var payload dto.SignupDTO
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid signup payload")
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if !s.checkOTP("signup", payload.OTP) {
		return fail(c, http.StatusForbidden, "OTP is invalid or expired")
	}
	for _, user := range s.store.users {
		if strings.EqualFold(user.Email, payload.Email) {
			return fail(c, http.StatusConflict, "An account with this email already exists")
		}
	}
	s.store.addUser(payload.Name, payload.Email, payload.Password, "admin")
	return c.JSON(http.StatusCreated, map[string]string{"message": "Account created"})
}

func (s *server) forgotPasswordRequest(c echo.Context) error {
	var payload dto.ForgotPasswordRequestDTO
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid payload")
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for _, user := range s.store.users {
		if strings.EqualFold(user.Email, payload.Email) {
			s.issueOTP("forgot:" + strings.ToLower(payload.Email))
			break
		}
	}
	// Same answer whether or not the account exists.
	return c.JSON(http.StatusOK, map[string]string{"message": "If the account exists, a code was sent"})
}

func (s *server) forgotPasswordVerify(c echo.Context) error {
	var payload dto.ForgotPasswordVerifyDTO
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid payload")
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if !s.checkOTP("forgot:"+strings.ToLower(payload.Email), payload.OTP) {
		return fail(c, http.StatusForbidden, "OTP is invalid or expired")
	}
	for i, user := range s.store.users {
		if strings.EqualFold(user.Email, payload.Email) {
			hash, _ := bcrypt.GenerateFromPassword([]byte(payload.NewPassword), bcrypt.DefaultCost)
			s.store.passwords[s.store.users[i].ID] = string(hash)
			return c.JSON(http.StatusOK, map[string]string{"message": "Password reset"})
		}
	}
	return fail(c, http.StatusNotFound, "Account not found")
}

// --- leads ---

func (s *server) listLeads(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	q := c.QueryParam("q")
	status := c.QueryParam("status")

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	filtered := make([]dto.LeadDTO, 0, len(s.store.leads))
	for _, lead := range s.store.leads {
		if status != "" && lead.Status != status {
			continue
		}
		if !matches(q, lead.Name, lead.Mobile, lead.Email, lead.LeadID) {
			continue
		}
		filtered = append(filtered, lead)
	}
	return c.JSON(http.StatusOK, paginate(filtered, page))
}

func (s *server) createLead(c echo.Context) error {
	var payload dto.CreateLeadDTO
	if err := c.Bind(&payload); err != nil || payload.Name == "" || payload.Mobile == "" {
		return fail(c, http.StatusBadRequest, "Name and mobile are required")
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	lead := s.store.addLead(payload.Name, payload.Mobile, payload.Email, payload.LeadType, payload.SubType, "FreePool", 0)
	return c.JSON(http.StatusCreated, lead)
}

func (s *server) patchLead(c echo.Context) error {
	var payload dto.UpdateLeadWorkflowDTO
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid payload")
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for i := range s.store.leads {
		if s.store.leads[i].ID == c.Param("id") {
			s.store.leads[i].WorkflowStatus = payload.WorkflowStatus
			return c.JSON(http.StatusOK, s.store.leads[i])
		}
	}
	return fail(c, http.StatusNotFound, "Lead not found")
}

func (s *server) deleteLead(c echo.Context) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for i := range s.store.leads {
		if s.store.leads[i].ID == c.Param("id") {
			s.store.leads = append(s.store.leads[:i], s.store.leads[i+1:]...)
			return c.NoContent(http.StatusNoContent)
		}
	}
	return fail(c, http.StatusNotFound, "Lead not found")
}

// --- cases ---

type caseDetail struct {
	dto.CaseDTO
	DocumentSections []doctree.Section `json:"documentSections"`
}

func (s *server) findCase(id string) *caseRecord {
	for i := range s.store.cases {
		if s.store.cases[i].ID == id {
			return &s.store.cases[i]
		}
	}
	return nil
}

func (s *server) listCases(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	q := c.QueryParam("q")
	assignedTo := c.QueryParam("assignedTo")
	task := c.QueryParam("task")

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	filtered := make([]dto.CaseDTO, 0, len(s.store.cases))
	for _, record := range s.store.cases {
		if assignedTo != "" && record.AssignedTo.String != assignedTo {
			continue
		}
		if task != "" && record.Task != task {
			continue
		}
		if !matches(q, record.CustomerName, record.Mobile, record.Email, record.CaseID) {
			continue
		}
		filtered = append(filtered, record.CaseDTO)
	}
	return c.JSON(http.StatusOK, paginate(filtered, page))
}

func (s *server) getCase(c echo.Context) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	record := s.findCase(c.Param("id"))
	if record == nil {
		return fail(c, http.StatusNotFound, "Case not found")
	}
	return c.JSON(http.StatusOK, caseDetail{CaseDTO: record.CaseDTO, DocumentSections: record.Sections})
}

// updateCase serves both shapes on the same route: a JSON body is a partial
// scalar update, a multipart body is the full form submit.
func (s *server) updateCase(c echo.Context) error {
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return s.submitCase(c)
	}

	var payload dto.UpdateCaseDTO
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid payload")
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	record := s.findCase(c.Param("id"))
	if record == nil {
		return fail(c, http.StatusNotFound, "Case not found")
	}
	if payload.AssignedTo != nil {
		record.AssignedTo = *payload.AssignedTo
	}
	if payload.Task != nil {
		record.Task = *payload.Task
	}
	if payload.Status != nil {
		record.Audit = append(record.Audit, dto.CaseAuditEntryDTO{
			Action:     "status-change",
			FromStatus: record.Status,
			ToStatus:   *payload.Status,
			CreatedAt:  time.Now().UTC().Format(time.RFC3339),
		})
		record.Status = *payload.Status
	}
	if payload.Amount != nil {
		record.Amount = *payload.Amount
	}
	if payload.Notes != nil {
		record.Notes = *payload.Notes
	}
	return c.JSON(http.StatusOK, record.CaseDTO)
}

func (s *server) submitCase(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid multipart form")
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	record := s.findCase(c.Param("id"))
	if record == nil {
		return fail(c, http.StatusNotFound, "Case not found")
	}

	field := func(name string) string {
		if values := form.Value[name]; len(values) > 0 {
			return values[0]
		}
		return ""
	}
	record.CustomerName = field("customerName")
	record.Mobile = field("mobile")
	record.Email = field("email")
	record.LeadType = field("leadType")
	record.PermanentAddress = field("permanentAddress")
	record.Notes = field("notes")
	if amount, err := strconv.ParseFloat(field("amount"), 64); err == nil {
		record.Amount.SetValid(amount)
	}

	if raw := field("documentSections"); raw != "" {
		var sections []doctree.Section
		if err := json.Unmarshal([]byte(raw), &sections); err != nil {
			return fail(c, http.StatusBadRequest, "Invalid document sections")
		}
		record.Sections = sections
	}

	if raw := field("filesToDelete"); raw != "" {
		var names []string
		if err := json.Unmarshal([]byte(raw), &names); err != nil {
			return fail(c, http.StatusBadRequest, "Invalid deletion list")
		}
		for _, name := range names {
			delete(record.Files, name)
		}
	}

	for _, header := range form.File["documents"] {
		src, err := header.Open()
		if err != nil {
			return fail(c, http.StatusBadRequest, "Could not read uploaded file")
		}
		content, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return fail(c, http.StatusBadRequest, "Could not read uploaded file")
		}
		record.Files[header.Filename] = content
	}

	// Everything the client sent is now persisted.
	for si := range record.Sections {
		for di := range record.Sections[si].Documents {
			files := record.Sections[si].Documents[di].Files
			for fi := range files {
				if !files[fi].IsDeleted {
					files[fi].IsUploaded = true
				}
			}
		}
	}

	return c.JSON(http.StatusOK, caseDetail{CaseDTO: record.CaseDTO, DocumentSections: record.Sections})
}

func (s *server) commentCase(c echo.Context) error {
	var payload dto.CaseCommentDTO
	if err := c.Bind(&payload); err != nil || payload.Comment == "" {
		return fail(c, http.StatusBadRequest, "A comment is required")
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	record := s.findCase(c.Param("id"))
	if record == nil {
		return fail(c, http.StatusNotFound, "Case not found")
	}
	record.Audit = append(record.Audit, dto.CaseAuditEntryDTO{
		Action:    "comment",
		Comment:   payload.Comment,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	return c.JSON(http.StatusCreated, map[string]string{"message": "Comment recorded"})
}

func (s *server) caseAudit(c echo.Context) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	record := s.findCase(c.Param("id"))
	if record == nil {
		return fail(c, http.StatusNotFound, "Case not found")
	}
	entries := record.Audit
	if entries == nil {
		entries = []dto.CaseAuditEntryDTO{}
	}
	return c.JSON(http.StatusOK, entries)
}

func (s *server) caseArchive(c echo.Context) error {
	s.store.mu.Lock()
	record := s.findCase(c.Param("id"))
	if record == nil {
		s.store.mu.Unlock()
		return fail(c, http.StatusNotFound, "Case not found")
	}
	names := make([]string, 0, len(record.Files))
	for name := range record.Files {
		names = append(names, name)
	}
	sort.Strings(names)
	files := make(map[string][]byte, len(names))
	for _, name := range names {
		files[name] = record.Files[name]
	}
	caseID := record.CaseID
	s.store.mu.Unlock()

	c.Response().Header().Set(echo.HeaderContentType, "application/zip")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+caseID+`.zip"`)
	c.Response().WriteHeader(http.StatusOK)

	zw := zip.NewWriter(c.Response())
	defer zw.Close()
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			return err
		}
		if _, err := w.Write(files[name]); err != nil {
			return err
		}
	}
	return nil
}

// --- customers ---

func (s *server) listCustomers(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	q := c.QueryParam("q")
	bank := c.QueryParam("bank")
	status := c.QueryParam("status")

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	filtered := make([]dto.CustomerDTO, 0, len(s.store.customers))
	for _, customer := range s.store.customers {
		if bank != "" && customer.BankName != bank {
			continue
		}
		if status != "" && customer.Status != status {
			continue
		}
		if !matches(q, customer.Name, customer.Mobile, customer.Email, customer.CustomerID) {
			continue
		}
		filtered = append(filtered, customer)
	}
	return c.JSON(http.StatusOK, paginate(filtered, page))
}

func (s *server) customerBanks(c echo.Context) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	seen := map[string]bool{}
	banks := []string{}
	for _, customer := range s.store.customers {
		if customer.BankName != "" && !seen[customer.BankName] {
			seen[customer.BankName] = true
			banks = append(banks, customer.BankName)
		}
	}
	sort.Strings(banks)
	return c.JSON(http.StatusOK, banks)
}

func (s *server) customerStatuses(c echo.Context) error {
	return c.JSON(http.StatusOK, []string{"open", "close"})
}

func (s *server) patchCustomer(c echo.Context) error {
	var payload dto.UpdateCustomerFieldDTO
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid payload")
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for i := range s.store.customers {
		customer := &s.store.customers[i]
		if customer.ID != c.Param("id") {
			continue
		}
		if payload.Status != nil && *payload.Status == "close" && customer.TotalDisbursed <= 0 {
			return fail(c, http.StatusUnprocessableEntity, "Cannot close "+customer.Name+": no disbursement recorded")
		}
		if payload.ChannelPartner != nil {
			customer.ChannelPartner = *payload.ChannelPartner
		}
		if payload.BankName != nil {
			customer.BankName = *payload.BankName
		}
		if payload.Status != nil {
			customer.Status = *payload.Status
		}
		return c.JSON(http.StatusOK, customer)
	}
	return fail(c, http.StatusNotFound, "Customer not found")
}

func (s *server) deleteCustomer(c echo.Context) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for i := range s.store.customers {
		if s.store.customers[i].ID == c.Param("id") {
			s.store.customers = append(s.store.customers[:i], s.store.customers[i+1:]...)
			return c.NoContent(http.StatusNoContent)
		}
	}
	return fail(c, http.StatusNotFound, "Customer not found")
}

func (s *server) uploadCustomerKYC(c echo.Context) error {
	header, err := c.FormFile("file")
	if err != nil {
		return fail(c, http.StatusBadRequest, "A file is required")
	}
	label := c.FormValue("label")
	if label == "" {
		return fail(c, http.StatusBadRequest, "A label is required")
	}
	src, err := header.Open()
	if err != nil {
		return fail(c, http.StatusBadRequest, "Could not read uploaded file")
	}
	defer src.Close()
	size, err := io.Copy(io.Discard, src)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Could not read uploaded file")
	}
	s.logger.Info("customer KYC uploaded",
		zap.String("customer_id", c.Param("id")),
		zap.String("label", label),
		zap.String("filename", header.Filename),
		zap.Int64("size", size),
	)
	return c.JSON(http.StatusCreated, map[string]string{"message": label + " uploaded"})
}

// --- channel partners / branches ---

func (s *server) listPartners(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	q := c.QueryParam("q")
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	filtered := make([]dto.PartnerDTO, 0, len(s.store.partners))
	for _, partner := range s.store.partners {
		if matches(q, partner.Name, partner.Mobile, partner.Email, partner.Firm) {
			filtered = append(filtered, partner)
		}
	}
	return c.JSON(http.StatusOK, paginate(filtered, page))
}

func (s *server) getPartner(c echo.Context) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for _, partner := range s.store.partners {
		if partner.ID == c.Param("id") {
			return c.JSON(http.StatusOK, partner)
		}
	}
	return fail(c, http.StatusNotFound, "Partner not found")
}

func (s *server) createPartner(c echo.Context) error {
	var payload dto.CreatePartnerDTO
	if err := c.Bind(&payload); err != nil || payload.Name == "" || payload.Mobile == "" {
		return fail(c, http.StatusBadRequest, "Name and mobile are required")
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	partner := dto.PartnerDTO{
		ID:        uuid.NewString(),
		Name:      payload.Name,
		Mobile:    payload.Mobile,
		Email:     payload.Email,
		Firm:      payload.Firm,
		PAN:       payload.PAN,
		Aadhaar:   payload.Aadhaar,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	s.store.partners = append(s.store.partners, partner)
	return c.JSON(http.StatusCreated, partner)
}

func (s *server) deletePartner(c echo.Context) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for i := range s.store.partners {
		if s.store.partners[i].ID == c.Param("id") {
			s.store.partners = append(s.store.partners[:i], s.store.partners[i+1:]...)
			return c.NoContent(http.StatusNoContent)
		}
	}
	return fail(c, http.StatusNotFound, "Partner not found")
}

func (s *server) listBranches(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	q := c.QueryParam("q")
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	filtered := make([]dto.BranchDTO, 0, len(s.store.branches))
	for _, branch := range s.store.branches {
		if matches(q, branch.Name, branch.BankName, branch.Manager) {
			filtered = append(filtered, branch)
		}
	}
	return c.JSON(http.StatusOK, paginate(filtered, page))
}

func (s *server) getBranch(c echo.Context) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for _, branch := range s.store.branches {
		if branch.ID == c.Param("id") {
			return c.JSON(http.StatusOK, branch)
		}
	}
	return fail(c, http.StatusNotFound, "Branch not found")
}

func (s *server) createBranch(c echo.Context) error {
	var payload dto.CreateBranchDTO
	if err := c.Bind(&payload); err != nil || payload.Name == "" || payload.BankName == "" {
		return fail(c, http.StatusBadRequest, "Name and bank are required")
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	branch := dto.BranchDTO{
		ID:        uuid.NewString(),
		Name:      payload.Name,
		BankName:  payload.BankName,
		Address:   payload.Address,
		Contact:   payload.Contact,
		Manager:   payload.Manager,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	s.store.branches = append(s.store.branches, branch)
	return c.JSON(http.StatusCreated, branch)
}

func (s *server) deleteBranch(c echo.Context) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for i := range s.store.branches {
		if s.store.branches[i].ID == c.Param("id") {
			s.store.branches = append(s.store.branches[:i], s.store.branches[i+1:]...)
			return c.NoContent(http.StatusNoContent)
		}
	}
	return fail(c, http.StatusNotFound, "Branch not found")
}

// --- users ---

func (s *server) listUsers(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	q := c.QueryParam("q")
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	filtered := make([]dto.UserDTO, 0, len(s.store.users))
	for _, user := range s.store.users {
		if matches(q, user.Name, user.Email, user.Role) {
			filtered = append(filtered, user)
		}
	}
	return c.JSON(http.StatusOK, paginate(filtered, page))
}

func (s *server) createUser(c echo.Context) error {
	var payload dto.CreateUserDTO
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid payload")
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if !s.checkOTP(payload.Purpose, payload.OTP) {
		return fail(c, http.StatusForbidden, "OTP is invalid or expired")
	}
	for _, user := range s.store.users {
		if strings.EqualFold(user.Email, payload.Email) {
			return fail(c, http.StatusConflict, "An account with this email already exists")
		}
	}
	user := s.store.addUser(payload.Name, payload.Email, payload.Password, payload.Role)
	return c.JSON(http.StatusCreated, user)
}

func (s *server) deleteUser(c echo.Context) error {
	var payload dto.DeleteUserDTO
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid payload")
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if !s.checkOTP(payload.Purpose, payload.OTP) {
		return fail(c, http.StatusForbidden, "OTP is invalid or expired")
	}
	for i := range s.store.users {
		if s.store.users[i].ID == c.Param("id") {
			delete(s.store.passwords, s.store.users[i].ID)
			s.store.users = append(s.store.users[:i], s.store.users[i+1:]...)
			return c.NoContent(http.StatusNoContent)
		}
	}
	return fail(c, http.StatusNotFound, "User not found")
}

func (s *server) patchUserRole(c echo.Context) error {
	var payload dto.UpdateUserRoleDTO
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid payload")
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for i := range s.store.users {
		if s.store.users[i].ID == c.Param("id") {
			s.store.users[i].Role = payload.Role
			return c.JSON(http.StatusOK, s.store.users[i])
		}
	}
	return fail(c, http.StatusNotFound, "User not found")
}

func (s *server) patchUserActive(c echo.Context) error {
	var payload dto.UpdateUserActiveDTO
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid payload")
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for i := range s.store.users {
		if s.store.users[i].ID == c.Param("id") {
			s.store.users[i].IsActive = payload.IsActive
			return c.JSON(http.StatusOK, s.store.users[i])
		}
	}
	return fail(c, http.StatusNotFound, "User not found")
}

func (s *server) patchUserPassword(c echo.Context) error {
	var payload dto.UpdateUserPasswordDTO
	if err := c.Bind(&payload); err != nil || len(payload.Password) < 6 {
		return fail(c, http.StatusBadRequest, "Password must be at least 6 characters")
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for i := range s.store.users {
		if s.store.users[i].ID == c.Param("id") {
			hash, _ := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
			s.store.passwords[s.store.users[i].ID] = string(hash)
			return c.JSON(http.StatusOK, map[string]string{"message": "Password updated"})
		}
	}
	return fail(c, http.StatusNotFound, "User not found")
}
