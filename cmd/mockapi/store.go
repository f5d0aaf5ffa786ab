package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pradhanfinservdev/pradhanportal-client/internal/doctree"
	"github.com/pradhanfinservdev/pradhanportal-client/internal/dto"
	"github.com/pradhanfinservdev/pradhanportal-client/pkg/api"
)

const pageSize = 12

type caseRecord struct {
	dto.CaseDTO
	Sections []doctree.Section
	Audit    []dto.CaseAuditEntryDTO
	// uploaded document bytes, keyed by filename
	Files map[string][]byte
}

type otpEntry struct {
	Code    string
	Expires time.Time
}

// memStore is the whole backend state. One mutex is plenty for a dev
// server.
type memStore struct {
	mu sync.Mutex

	users     []dto.UserDTO
	passwords map[string]string // user id -> bcrypt hash

	leads     []dto.LeadDTO
	cases     []caseRecord
	customers []dto.CustomerDTO
	partners  []dto.PartnerDTO
	branches  []dto.BranchDTO

	// pending OTPs keyed by purpose or by "forgot:"+email
	otps map[string]otpEntry

	leadSeq int
	caseSeq int
}

func paginate[T any](items []T, page int) api.ListResult[T] {
	pages := (len(items) + pageSize - 1) / pageSize
	if pages == 0 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return api.ListResult[T]{Items: append([]T(nil), items[start:end]...), Pages: pages}
}

func matches(q string, fields ...string) bool {
	if q == "" {
		return true
	}
	q = strings.ToLower(q)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func newStore() *memStore {
	s := &memStore{
		passwords: map[string]string{},
		otps:      map[string]otpEntry{},
	}
	s.seed()
	return s
}

func (s *memStore) addUser(name, email, password, role string) dto.UserDTO {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	user := dto.UserDTO{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Role:      role,
		IsActive:  true,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	s.users = append(s.users, user)
	s.passwords[user.ID] = string(hash)
	return user
}

func (s *memStore) addLead(name, mobile, email, leadType, subType, workflow string, age time.Duration) dto.LeadDTO {
	s.leadSeq++
	lead := dto.LeadDTO{
		ID:             uuid.NewString(),
		LeadID:         fmt.Sprintf("LD-%04d", s.leadSeq),
		Name:           name,
		Mobile:         mobile,
		Email:          email,
		LeadType:       leadType,
		SubType:        subType,
		Status:         "free_pool",
		WorkflowStatus: workflow,
		CreatedAt:      time.Now().Add(-age).UTC().Format(time.RFC3339),
	}
	s.leads = append(s.leads, lead)
	return lead
}

func (s *memStore) addCase(lead dto.LeadDTO, bank, partner, task, status string, amount float64, assignedTo string) *caseRecord {
	s.caseSeq++
	record := caseRecord{
		CaseDTO: dto.CaseDTO{
			ID:             uuid.NewString(),
			CaseID:         fmt.Sprintf("CS-%04d", s.caseSeq),
			LeadID:         lead.LeadID,
			CustomerName:   lead.Name,
			Mobile:         lead.Mobile,
			Email:          lead.Email,
			LeadType:       lead.LeadType,
			SubType:        lead.SubType,
			Bank:           bank,
			ChannelPartner: partner,
			AssignedTo:     null.NewString(assignedTo, assignedTo != ""),
			Task:           task,
			Status:         status,
			Amount:         null.Float64From(amount),
			CreatedAt:      lead.CreatedAt,
		},
		Sections: doctree.DefaultTemplate(),
		Files:    map[string][]byte{},
	}
	s.cases = append(s.cases, record)
	return &s.cases[len(s.cases)-1]
}

func (s *memStore) addCustomer(name, mobile, partner, bank, status string, disbursed float64) dto.CustomerDTO {
	customer := dto.CustomerDTO{
		ID:             uuid.NewString(),
		CustomerID:     fmt.Sprintf("CU-%04d", len(s.customers)+1),
		Name:           name,
		Mobile:         mobile,
		ChannelPartner: partner,
		BankName:       bank,
		Status:         status,
		TotalDisbursed: disbursed,
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	s.customers = append(s.customers, customer)
	return customer
}

func (s *memStore) seed() {
	s.addUser("Asha Pradhan", "admin@pradhan.local", "admin123", "superadmin")
	s.addUser("Ravi Kumar", "ravi@pradhan.local", "officer1", "officer")
	s.addUser("Meena Joshi", "meena@pradhan.local", "officer1", "officer")

	partnerNames := []string{"Sharma Associates", "Patil Finance", "Desai Consultants"}
	for i, name := range partnerNames {
		s.partners = append(s.partners, dto.PartnerDTO{
			ID:        uuid.NewString(),
			Name:      name,
			Mobile:    fmt.Sprintf("98%08d", 7600001+i),
			Email:     fmt.Sprintf("partner%d@pradhan.local", i+1),
			Firm:      name,
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		})
	}

	banks := []string{"SBI", "HDFC Bank", "Bank of Baroda"}
	for i, bank := range banks {
		s.branches = append(s.branches, dto.BranchDTO{
			ID:        uuid.NewString(),
			Name:      bank + " Pune Camp",
			BankName:  bank,
			Address:   "Camp, Pune",
			Contact:   fmt.Sprintf("91%08d", 2300001+i),
			Manager:   "Branch Manager",
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		})
	}

	leadTypes := []string{"Home Loan", "LAP", "Business Loan"}
	firstNames := []string{"Amit", "Sunita", "Rahul", "Priya", "Vikram", "Neha", "Sanjay", "Pooja", "Arjun", "Kavita"}
	for i := 0; i < 30; i++ {
		workflow := "FreePool"
		if i%7 == 0 {
			workflow = "Postpone"
		}
		name := firstNames[i%len(firstNames)] + " " + []string{"Patil", "Deshmukh", "Kulkarni"}[i%3]
		lead := s.addLead(
			name,
			fmt.Sprintf("98%08d", 10000001+i),
			strings.ToLower(strings.ReplaceAll(name, " ", "."))+"@example.com",
			leadTypes[i%len(leadTypes)],
			"",
			workflow,
			time.Duration(i*7)*time.Hour,
		)
		if i%3 == 0 {
			j := i / 3
			assigned := ""
			if j%2 == 0 {
				assigned = "Ravi Kumar"
			}
			s.addCase(lead, banks[j%len(banks)], partnerNames[j%len(partnerNames)],
				[]string{"Call", "Collect Docs", "Login"}[j%3],
				[]string{"in-progress", "pending-documents", "approved"}[j%3],
				float64(1500000+i*250000), assigned)
		}
		if i%5 == 0 {
			disbursed := 0.0
			status := "open"
			if i%10 == 0 {
				disbursed = float64(2000000 + i*100000)
			}
			s.addCustomer(lead.Name, lead.Mobile, partnerNames[i%len(partnerNames)], banks[i%len(banks)], status, disbursed)
		}
	}
}
