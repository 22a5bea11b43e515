package sheets

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"
)

// Writer replaces the whole content of one spreadsheet tab.
type Writer interface {
	Replace(ctx context.Context, spreadsheetID, tab string, cells [][]string) error
}

// Dialer opens a Writer authenticated with the given credentials.
type Dialer func(ctx context.Context, creds Credentials) (Writer, error)

// GoogleDialer authenticates with the service account JWT flow.
func GoogleDialer(ctx context.Context, creds Credentials) (Writer, error) {
	conf := &jwt.Config{
		Email:      creds.Email,
		PrivateKey: []byte(creds.PrivateKey),
		Scopes:     []string{sheets.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}
	svc, err := sheets.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &googleWriter{svc: svc}, nil
}

type googleWriter struct {
	svc *sheets.Service
}

func (w *googleWriter) Replace(ctx context.Context, spreadsheetID, tab string, cells [][]string) error {
	rangeName := quoteTab(tab)
	if _, err := w.svc.Spreadsheets.Values.Clear(spreadsheetID, rangeName, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", tab, err)
	}

	values := make([][]interface{}, len(cells))
	for i, row := range cells {
		values[i] = make([]interface{}, len(row))
		for j, cell := range row {
			values[i][j] = cell
		}
	}
	_, err := w.svc.Spreadsheets.Values.Update(spreadsheetID, rangeName+"!A1", &sheets.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", tab, err)
	}
	return nil
}

// quoteTab wraps tab names that A1 notation cannot take bare.
func quoteTab(tab string) string {
	if strings.ContainsAny(tab, " '!:") {
		return "'" + strings.ReplaceAll(tab, "'", "''") + "'"
	}
	return tab
}
