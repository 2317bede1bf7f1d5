package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/cbo-qa/cbo-smoke/internal/ledger"
	"github.com/cbo-qa/cbo-smoke/internal/models"
	"github.com/cbo-qa/cbo-smoke/pkg/cbo"
)

var (
	titleColor = color.New(color.FgCyan, color.Bold)
	okColor    = color.New(color.FgGreen, color.Bold)
	failColor  = color.New(color.FgRed, color.Bold)
	keyColor   = color.New(color.FgYellow)
)

func printField(w io.Writer, key string, value any) {
	_, _ = keyColor.Fprintf(w, "  %-28s", key)
	_, _ = fmt.Fprintf(w, " %v\n", value)
}

func printRecord(w io.Writer, rec *models.ResolvedRecord) {
	_, _ = titleColor.Fprintf(w, "Row %s staged\n", rec.Source.CSVFileRowNumber)
	printField(w, "Reference", rec.Reference)
	printField(w, "TransactionId", rec.TransactionID)
	printField(w, "ContractId", rec.ContractID)
	printField(w, "RegistrationNumber", rec.RegistrationNumber)
	printField(w, "RegistrationDate", rec.RegistrationDate)
	printField(w, "ExpiryDate", rec.ExpiryDate)
	printField(w, "Term", rec.Term)
	printField(w, "FirstName", rec.FirstName)
	printField(w, "LastName", rec.LastName)
	printField(w, "TransactionCreatedDateTime", rec.TransactionCreatedDateTime)
}

func printLedger(w io.Writer, l *ledger.Ledger) {
	_, _ = titleColor.Fprintf(w, "Ledger %s\n", l.RunID())
	for _, f := range models.LedgerFields {
		printField(w, string(f), strings.Join(l.Values(f), ", "))
	}
}

func printToken(w io.Writer, tok *cbo.Token) {
	_, _ = okColor.Fprintln(w, "Token acquired")
	printField(w, "TokenType", tok.TokenType)
	printField(w, "Expiry", tok.Expiry.Format(time.RFC3339))
	printField(w, "Scope", tok.Scope)
	printField(w, "AccessToken", maskToken(tok.AccessToken))
}

func printLookup(w io.Writer, resp *cbo.LookupResponse) {
	_, _ = okColor.Fprintln(w, "Lookup succeeded")
	printField(w, "cboFound", string(resp.CboFound))
	printField(w, "cboTypes", string(resp.CboTypes))
}

func printFailure(w io.Writer, step string, err error) {
	_, _ = failColor.Fprintf(w, "%s failed: ", step)
	_, _ = fmt.Fprintln(w, err)
}

func maskToken(s string) string {
	if len(s) <= 12 {
		return "(sensitive)"
	}
	return s[:6] + "..." + s[len(s)-6:]
}
