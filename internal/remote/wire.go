package remote

import (
	"time"

	"github.com/draftguard/draftguard-agent/internal/models"
)

// Wire shapes as the service emits them. Field names follow the server's
// contract and are mapped into models before leaving this package.

type wireFile struct {
	ID         string `json:"_id"`
	Name       string `json:"name"`
	StoredName string `json:"storedName"`
	Size       int64  `json:"size"`
	WordCount  int    `json:"wordCount"`
}

type wireScore struct {
	Score *float64 `json:"score"`
}

type wireReports struct {
	AI         wireScore `json:"ai"`
	Plagiarism wireScore `json:"plagiarism"`
}

type wireReport struct {
	ID      string      `json:"_id"`
	Reports wireReports `json:"reports"`
}

type wireCheck struct {
	CheckID      string      `json:"checkId"`
	Status       string      `json:"status"`
	DeliveryTime string      `json:"deliveryTime"`
	CreatedAt    string      `json:"createdAt"`
	Priority     string      `json:"priority"`
	File         wireFile    `json:"fileId"`
	Report       *wireReport `json:"reportId"`
}

type wireAccount struct {
	ID            string `json:"_id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Plan          string `json:"plan"`
	Credits       int    `json:"credits"`
	CreditsExpiry string `json:"creditsExpiry"`
}

type wireAPIKey struct {
	KeyID     string `json:"keyId"`
	MaskedKey string `json:"maskedKey"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"createdAt"`
	ExpiresAt string `json:"expiresAt"`
}

type wirePurgeResult struct {
	Deleted int      `json:"deleted"`
	Failed  []string `json:"failed"`
}

type wireErrorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func parseWireTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t
	}
	return time.Time{}
}

func parseWireTimePtr(raw string) *time.Time {
	t := parseWireTime(raw)
	if t.IsZero() {
		return nil
	}
	return &t
}

func (w wireCheck) toModel() models.Check {
	check := models.Check{
		CheckID:      w.CheckID,
		RawStatus:    w.Status,
		Status:       models.ParseStatus(w.Status),
		Priority:     w.Priority,
		SubmittedAt:  parseWireTime(w.CreatedAt),
		DeliveryTime: parseWireTime(w.DeliveryTime),
		File: models.FileMeta{
			FileID:     w.File.ID,
			Name:       w.File.Name,
			StoredName: w.File.StoredName,
			Size:       w.File.Size,
			WordCount:  w.File.WordCount,
		},
	}

	if w.Report != nil {
		check.Report = &models.ReportRef{
			ReportID:        w.Report.ID,
			AIScore:         w.Report.Reports.AI.Score,
			PlagiarismScore: w.Report.Reports.Plagiarism.Score,
		}
	}

	return check
}

func (w wireAccount) toModel() models.Account {
	return models.Account{
		UserID:        w.ID,
		Email:         w.Email,
		Name:          w.Name,
		Plan:          w.Plan,
		Credits:       w.Credits,
		CreditsExpiry: parseWireTimePtr(w.CreditsExpiry),
	}
}

func (w wireAPIKey) toModel() models.APIKey {
	return models.APIKey{
		KeyID:     w.KeyID,
		MaskedKey: w.MaskedKey,
		Active:    w.Active,
		CreatedAt: parseWireTime(w.CreatedAt),
		ExpiresAt: parseWireTimePtr(w.ExpiresAt),
	}
}
