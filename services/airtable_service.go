package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"grants-marketplace-api/models"
)

const (
	airtableAPIBase = "https://api.airtable.com/v0"

	// Airtable record id of the "Solana Grant" payment category.
	airtableGrantCategoryID = "recd0Kn3N4Ffhtwhd"
)

// superteamRegions maps an applicant country to the regional Superteam that
// handles the payout. Anything unlisted settles under the Global region.
var superteamRegions = map[string]string{
	"india":                "India",
	"vietnam":              "Vietnam",
	"turkey":               "Turkey",
	"germany":              "Germany",
	"mexico":               "Mexico",
	"united kingdom":       "UK",
	"united arab emirates": "UAE",
	"nigeria":              "Nigeria",
	"brazil":               "Brazil",
	"malaysia":             "Malaysia",
	"japan":                "Japan",
	"france":               "France",
	"canada":               "Canada",
	"singapore":            "Singapore",
	"philippines":          "Philippines",
	"south korea":          "Korea",
	"ireland":              "Ireland",
	"ukraine":              "Ukraine",
	"poland":               "Poland",
	"indonesia":            "Indonesia",
}

// AirtableService mirrors tranche payment records into the payments base.
type AirtableService struct {
	client        *http.Client
	token         string
	baseID        string
	paymentsTable string
	regionsTable  string
}

// NewAirtableService constructs an AirtableService from environment
// configuration.
func NewAirtableService(client *http.Client) *AirtableService {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &AirtableService{
		client:        client,
		token:         os.Getenv("AIRTABLE_GRANTS_API_TOKEN"),
		baseID:        os.Getenv("AIRTABLE_PAYMENTS_BASE_ID"),
		paymentsTable: os.Getenv("AIRTABLE_PAYMENTS_TABLE_NAME"),
		regionsTable:  os.Getenv("AIRTABLE_PAYMENTS_REGIONS_TABLE_NAME"),
	}
}

// paymentFields is the payments-table schema: one record per approved
// tranche, keyed by application and tranche ids.
type paymentFields struct {
	Name             string   `json:"Name"`
	Amount           float64  `json:"Amount"`
	WalletAddress    string   `json:"Wallet Address"`
	Category         []string `json:"Category"`
	PurposeOfPayment string   `json:"Purpose of Payment"`
	Status           string   `json:"Status"`
	Region           []string `json:"Region,omitempty"`
	ApplicationID    string   `json:"earnApplicationId"`
	TrancheID        string   `json:"earnTrancheId"`
}

type airtableRecord struct {
	ID     string          `json:"id,omitempty"`
	Fields json.RawMessage `json:"fields,omitempty"`
}

type airtableRecordList struct {
	Records []airtableRecord `json:"records"`
}

// AddPaymentInfo inserts a payment record for the tranche and returns the
// created record id.
func (s *AirtableService) AddPaymentInfo(ctx context.Context, application *models.GrantApplication, user *models.User, grant *models.Grant, tranche *models.GrantTranche) (string, error) {
	if s.token == "" || s.baseID == "" || s.paymentsTable == "" {
		return "", fmt.Errorf("airtable not configured (AIRTABLE_GRANTS_API_TOKEN/AIRTABLE_PAYMENTS_BASE_ID/AIRTABLE_PAYMENTS_TABLE_NAME)")
	}

	regionID, err := s.regionRecordID(ctx, regionName(user.Location))
	if err != nil {
		return "", err
	}

	amount := tranche.Ask
	if tranche.ApprovedAmount != nil {
		amount = *tranche.ApprovedAmount
	}

	fields := paymentFields{
		Amount:           amount,
		WalletAddress:    application.WalletAddress,
		Category:         []string{airtableGrantCategoryID},
		PurposeOfPayment: application.ProjectTitle,
		Status:           "Verified",
		ApplicationID:    application.ID,
		TrancheID:        tranche.ID,
	}
	if user.KYCName != nil {
		fields.Name = *user.KYCName
	}
	if regionID != "" {
		fields.Region = []string{regionID}
	}

	rawFields, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("marshal airtable payment record: %w", err)
	}

	payload, err := json.Marshal(airtableRecordList{
		Records: []airtableRecord{{Fields: rawFields}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal airtable payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/%s", airtableAPIBase, s.baseID, url.PathEscape(s.paymentsTable))
	body, err := s.do(ctx, http.MethodPost, endpoint, payload)
	if err != nil {
		return "", err
	}

	var created airtableRecordList
	if err := json.Unmarshal(body, &created); err != nil {
		return "", fmt.Errorf("decode airtable response: %w", err)
	}
	if len(created.Records) == 0 {
		return "", fmt.Errorf("airtable insert returned no records")
	}
	return created.Records[0].ID, nil
}

// regionRecordID resolves the payments-region record for a region name.
// A missing region is not an error; the record is filed without one.
func (s *AirtableService) regionRecordID(ctx context.Context, name string) (string, error) {
	if s.regionsTable == "" {
		return "", nil
	}

	endpoint := fmt.Sprintf("%s/%s/%s?maxRecords=1&filterByFormula=%s",
		airtableAPIBase, s.baseID, url.PathEscape(s.regionsTable),
		url.QueryEscape(fmt.Sprintf("{Country}='%s'", name)))

	body, err := s.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	var list airtableRecordList
	if err := json.Unmarshal(body, &list); err != nil {
		return "", fmt.Errorf("decode airtable region response: %w", err)
	}
	if len(list.Records) == 0 {
		return "", nil
	}
	return list.Records[0].ID, nil
}

func (s *AirtableService) do(ctx context.Context, method, endpoint string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build airtable request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("airtable request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read airtable response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("airtable returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

// regionName picks the Superteam region handling payouts for the applicant's
// location.
func regionName(location *string) string {
	if location == nil {
		return "Global"
	}
	if region, ok := superteamRegions[strings.ToLower(strings.TrimSpace(*location))]; ok {
		return region
	}
	return "Global"
}
