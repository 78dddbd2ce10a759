package mailer

import (
	"bytes"
	"html/template"
)

// Notice 通知邮件内容
type Notice struct {
	Subject string
	HTML    string
}

var (
	approvedTpl = template.Must(template.New("approved").Parse(
		`<p>Hi {{.Name}},</p><p>Your {{.App}} account has been approved. You can now post listings, join groups and chat with other students.</p>`))
	rejectedTpl = template.Must(template.New("rejected").Parse(
		`<p>Hi {{.Name}},</p><p>Your {{.App}} registration was not approved and the account has been removed. You are welcome to register again with a clearer ID picture.</p>`))
	bannedTpl = template.Must(template.New("banned").Parse(
		`<p>Hi {{.Name}},</p><p>Your {{.App}} account has been banned by a moderator. You can no longer log in.</p>`))
)

type noticeData struct {
	App  string
	Name string
}

func render(tpl *template.Template, subject, app, name string) Notice {
	var buf bytes.Buffer
	// 模板只引用 noticeData 的字段，执行不会失败
	_ = tpl.Execute(&buf, noticeData{App: app, Name: name})
	return Notice{Subject: subject, HTML: buf.String()}
}

// ApprovedNotice 审核通过
func ApprovedNotice(app, name string) Notice {
	return render(approvedTpl, app+": your account was approved", app, name)
}

// RejectedNotice 审核未通过
func RejectedNotice(app, name string) Notice {
	return render(rejectedTpl, app+": your registration was rejected", app, name)
}

// BannedNotice 账号被封禁
func BannedNotice(app, name string) Notice {
	return render(bannedTpl, app+": your account was banned", app, name)
}
