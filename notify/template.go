package notify

import (
	"bytes"
	"html/template"
)

var enrollmentTemplate = template.Must(template.New("enrollment").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; color: #333;">
  <h2 style="color: #0BCEBC; border-bottom: 1px solid #eee; padding-bottom: 10px;">New Course Enrollment</h2>

  <div style="margin: 20px 0;">
    <p><strong>Course:</strong> {{.CourseTitle}}</p>
    <p><strong>Price:</strong> {{.CoursePrice}}</p>
  </div>

  <div style="background-color: #f9f9f9; padding: 15px; border-radius: 5px; margin: 20px 0;">
    <h3 style="color: #333; margin-top: 0;">Customer Information</h3>
    <p><strong>Name:</strong> {{.CustomerName}}</p>
    <p><strong>Email:</strong> {{.CustomerEmail}}</p>
    <p><strong>Phone:</strong> {{.CustomerPhone}}</p>
  </div>

  <p style="color: #666; font-size: 14px; margin-top: 30px;">
    This is an automated notification. Please do not reply to this email.
  </p>
</div>
`))

// RenderHTML renders the fixed admin email body.
func RenderHTML(n EnrollmentNotification) (string, error) {
	var buf bytes.Buffer
	if err := enrollmentTemplate.Execute(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderText(n EnrollmentNotification) string {
	return "New course enrollment\n\n" +
		"Course: " + n.CourseTitle + "\n" +
		"Price: " + n.CoursePrice + "\n\n" +
		"Name: " + n.CustomerName + "\n" +
		"Email: " + n.CustomerEmail + "\n" +
		"Phone: " + n.CustomerPhone + "\n"
}
