package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	gdrive "google.golang.org/api/drive/v3"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"contabil/internal/core"
	ports "contabil/internal/sheets"
	"contabil/internal/store"
)

// Client exports tables to Google Sheets. The Drive service handles
// find-by-name and sharing; the Sheets service handles cell writes.
type Client struct {
	sheets *gsheet.Service
	drive  *gdrive.Service
}

// Ensure interface conformance
var _ ports.TableExporter = (*Client)(nil)

// NewFromEnv creates a client using Service Account credentials.
// Uses GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Client, error) {
	credentialsJSON, err := credentialsFromEnv(ctx)
	if err != nil {
		return nil, err
	}

	sheetsSvc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	driveSvc, err := gdrive.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gdrive.DriveScope))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	return &Client{sheets: sheetsSvc, drive: driveSvc}, nil
}

func credentialsFromEnv(ctx context.Context) ([]byte, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case serviceAccountJSON != "":
		return []byte(serviceAccountJSON), nil
	case serviceAccountFile != "":
		data, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		slog.InfoContext(ctx, "Read service account credentials", "path", serviceAccountFile)
		return data, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

// Export writes the table into the configured spreadsheet, creating and
// sharing it on first use. The first worksheet is cleared and rewritten
// whole; exports are idempotent for the same table.
func (c *Client) Export(ctx context.Context, t *core.Table, cfg store.Settings) (string, error) {
	if t == nil {
		return "", errors.New("nil table")
	}
	if strings.TrimSpace(cfg.SheetName) == "" {
		return "", errors.New("sheet name not configured")
	}

	spreadsheetID, created, err := c.openOrCreate(ctx, cfg.SheetName)
	if err != nil {
		return "", err
	}
	if created && cfg.EmailShare != "" {
		if err := c.share(ctx, spreadsheetID, cfg.EmailShare); err != nil {
			return "", err
		}
	}

	if err := c.writeTable(ctx, spreadsheetID, t); err != nil {
		return "", err
	}

	slog.InfoContext(ctx, "Exported table to Google Sheets",
		"sheet_name", cfg.SheetName,
		"spreadsheet_id", spreadsheetID,
		"row_count", len(t.Rows),
		"created", created)

	return "https://docs.google.com/spreadsheets/d/" + spreadsheetID, nil
}

// openOrCreate finds a spreadsheet by name; when none exists it creates one.
func (c *Client) openOrCreate(ctx context.Context, name string) (id string, created bool, err error) {
	query := fmt.Sprintf(
		"name = '%s' and mimeType = 'application/vnd.google-apps.spreadsheet' and trashed = false",
		strings.ReplaceAll(name, "'", `\'`))

	list, err := c.drive.Files.List().
		Q(query).
		Fields("files(id, name)").
		PageSize(1).
		Context(ctx).Do()
	if err != nil {
		return "", false, fmt.Errorf("search spreadsheet: %w", err)
	}
	if len(list.Files) > 0 {
		return list.Files[0].Id, false, nil
	}

	sp, err := c.sheets.Spreadsheets.Create(&gsheet.Spreadsheet{
		Properties: &gsheet.SpreadsheetProperties{Title: name},
	}).Context(ctx).Do()
	if err != nil {
		return "", false, fmt.Errorf("create spreadsheet: %w", err)
	}
	return sp.SpreadsheetId, true, nil
}

func (c *Client) share(ctx context.Context, spreadsheetID, email string) error {
	_, err := c.drive.Permissions.Create(spreadsheetID, &gdrive.Permission{
		Type:         "user",
		Role:         "writer",
		EmailAddress: email,
	}).SendNotificationEmail(false).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("share spreadsheet: %w", err)
	}
	return nil
}

func (c *Client) writeTable(ctx context.Context, spreadsheetID string, t *core.Table) error {
	meta, err := c.sheets.Spreadsheets.Get(spreadsheetID).
		Fields("sheets(properties(title))").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}
	if len(meta.Sheets) == 0 {
		return errors.New("spreadsheet has no worksheets")
	}
	worksheet := meta.Sheets[0].Properties.Title

	if _, err := c.sheets.Spreadsheets.Values.Clear(spreadsheetID, worksheet, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear worksheet: %w", err)
	}

	values := make([][]any, 0, len(t.Rows)+1)
	header := make([]any, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = col
	}
	values = append(values, header)
	for _, row := range t.Rows {
		cells := make([]any, len(t.Columns))
		for i, col := range t.Columns {
			cells[i] = row.Fields[col]
		}
		values = append(values, cells)
	}

	rng := fmt.Sprintf("%s!A1", worksheet)
	_, err = c.sheets.Spreadsheets.Values.Update(spreadsheetID, rng, &gsheet.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write values: %w", err)
	}
	return nil
}
