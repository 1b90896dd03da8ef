package qrcode

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	pp "github.com/Frontware/promptpay"
	"github.com/shopspring/decimal"
	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"
)

// Dir is where QR images are written. Callers remove files with Remove.
var Dir = os.TempDir()

// GenerateLink renders link (a wa.me, sms: or mailto: URI) as a PNG QR code
// so it can be scanned with a phone.
func GenerateLink(name, link string) (string, error) {
	return save(name, link)
}

// GeneratePromptPay creates a PromptPay payment QR code for amount baht
func GeneratePromptPay(promptPayID string, amount decimal.Decimal) (string, error) {
	payment := pp.PromptPay{PromptPayID: promptPayID, Amount: amount.InexactFloat64()}
	qrcodeStr, err := payment.Gen()
	if err != nil {
		return "", fmt.Errorf("error generating PromptPay data: %w", err)
	}
	return save("promptpay_"+promptPayID, qrcodeStr)
}

func save(name, content string) (string, error) {
	qrc, err := qrcode.New(content)
	if err != nil {
		return "", fmt.Errorf("error creating QR code: %w", err)
	}

	// Generate a unique filename
	filename := filepath.Join(Dir, fmt.Sprintf("qr_%s_%d.png", name, time.Now().UnixNano()))
	fileWriter, err := standard.New(filename, standard.WithBuiltinImageEncoder(standard.PNG_FORMAT))
	if err != nil {
		return "", fmt.Errorf("error creating file writer: %w", err)
	}

	if err = qrc.Save(fileWriter); err != nil {
		os.Remove(filename) // Clean up on error
		return "", fmt.Errorf("error saving QR code: %w", err)
	}

	return filename, nil
}

// Remove deletes the QR code file
func Remove(filename string) error {
	return os.Remove(filename)
}
