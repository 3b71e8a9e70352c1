package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"mime"
	"mime/multipart"
	"net/textproto"
	"time"

	domain "github.com/xiebiao/bookshop/internal/domain/notify"
)

const resetSubject = "【Bookshop】密码重置验证码"

var resetHTML = template.Must(template.New("reset").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>密码重置</h2>
  <p>{{.Username}}，您好！您的验证码是：</p>
  <div style="background-color: #f4f4f4; padding: 15px; text-align: center; font-size: 24px; font-weight: bold; letter-spacing: 5px;">{{.Code}}</div>
  <p style="margin-top: 20px;">验证码{{.Minutes}}分钟内有效。</p>
  <p style="color: #666;">如果这不是您本人的操作，请忽略此邮件。</p>
</div>`))

// buildResetMessage 生成multipart/alternative邮件（纯文本 + HTML）
func buildResetMessage(from string, m domain.PasswordResetMail) ([]byte, error) {
	minutes := int(m.ExpiresIn / time.Minute)
	if minutes <= 0 {
		minutes = 10
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	text, err := w.CreatePart(textproto.MIMEHeader{"Content-Type": {"text/plain; charset=UTF-8"}})
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(text, "%s，您好！\r\n\r\n您的密码重置验证码是：%s\r\n验证码%d分钟内有效。\r\n\r\n如果这不是您本人的操作，请忽略此邮件。\r\n",
		m.Username, m.Code, minutes)

	html, err := w.CreatePart(textproto.MIMEHeader{"Content-Type": {"text/html; charset=UTF-8"}})
	if err != nil {
		return nil, err
	}
	if err := resetHTML.Execute(html, map[string]interface{}{
		"Username": m.Username,
		"Code":     m.Code,
		"Minutes":  minutes,
	}); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", m.To)
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.BEncoding.Encode("UTF-8", resetSubject))
	fmt.Fprintf(&msg, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", w.Boundary())
	msg.Write(body.Bytes())
	return msg.Bytes(), nil
}
