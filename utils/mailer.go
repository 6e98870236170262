package utils

import (
	"epp-app/config"
	"fmt"

	"gopkg.in/gomail.v2"
)

// SendConsistencyAlert mengirim email ke operator saat replay ledger tidak
// cocok dengan saldo proyeksi. Item yang bersangkutan sudah dibekukan oleh
// pemanggil sebelum alert dikirim.
func SendConsistencyAlert(itemCode string, ledgerBalance, currentStock int) error {
	if config.SMTPHost == "" || config.OperatorEmail == "" {
		fmt.Println("⚠️ SMTP not configured, consistency alert not sent for item", itemCode)
		return nil
	}

	subject := "🚨 Stock inconsistency detected: " + itemCode
	body := fmt.Sprintf(`
		<html>
			<body>
				<h3>Stock ledger mismatch</h3>
				<p>Item: <strong>%s</strong></p>
				<p>Ledger balance: <strong>%d</strong></p>
				<p>Projected stock: <strong>%d</strong></p>
				<p>The item has been frozen from stock adjustments until repaired.</p>
				<p>This is an auto-generated email. Please do not reply to this email or its recipients.</p>
			</body>
		</html>
	`, itemCode, ledgerBalance, currentStock)

	// Setup email
	msg := gomail.NewMessage()
	msg.SetHeader("From", config.SMTPSender)
	msg.SetHeader("To", config.OperatorEmail)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	// Kirim email
	dialer := gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPSender, config.SMTPPassword)
	if err := dialer.DialAndSend(msg); err != nil {
		fmt.Println("❌ Gagal mengirim email:", err)
		return err
	}

	fmt.Println("✅ Consistency alert terkirim ke:", config.OperatorEmail)
	return nil
}
