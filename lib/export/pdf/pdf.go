package pdfexport

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
)

type CertificateData struct {
	Number           string
	ProjectName      string
	MilestoneName    string
	CustomerName     string
	SupplierName     string
	Amount           float64
	Hours            float64
	SupplierSigner   string
	CustomerSigner   string
	SupplierSignedAt *time.Time
	CustomerSignedAt *time.Time
}

// GenerateCertificate формирует печатную форму акта приёмки этапа
func GenerateCertificate(data CertificateData) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("GenerateCertificate panic recover: %v", r)
		}
	}()
	pdf := fpdf.New("P", "mm", "A4", "static/font/")
	pdf.AddPage()
	pdf.AddUTF8Font("Arial", "", "Arial.ttf")
	pdf.AddUTF8Font("Arial", "B", "Arial Bold.ttf")
	pdf.SetFont("Arial", "B", 16)
	if pdf.Error() != nil {
		return nil, pdf.Error()
	}

	pdf.CellFormat(0, 10, fmt.Sprintf("Акт приёмки выполненных работ № %s", data.Number), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 12)
	_, lineHt := pdf.GetFontSize()
	html := pdf.HTMLBasicNew()
	htmlStr := fmt.Sprintf("Проект: <b>%s</b><br>", data.ProjectName) +
		fmt.Sprintf("Этап: <b>%s</b><br>", data.MilestoneName) +
		fmt.Sprintf("Заказчик: %s<br>", data.CustomerName) +
		fmt.Sprintf("Исполнитель: %s<br><br>", data.SupplierName) +
		fmt.Sprintf("Стоимость работ: %.2f руб.<br>", data.Amount)
	if data.Hours > 0 {
		htmlStr += fmt.Sprintf("Трудозатраты: %.1f ч.<br>", data.Hours)
	}
	htmlStr += "<br>Работы выполнены в полном объёме, стороны претензий не имеют.<br><br>"
	html.Write(lineHt, htmlStr)

	pdf.Ln(10)
	writeSignLine(pdf, "От исполнителя", data.SupplierSigner, data.SupplierSignedAt)
	pdf.Ln(8)
	writeSignLine(pdf, "От заказчика", data.CustomerSigner, data.CustomerSignedAt)

	buf := new(bytes.Buffer)
	err = pdf.Output(buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSignLine(pdf *fpdf.Fpdf, side, signer string, signedAt *time.Time) {
	signDate := ""
	if signedAt != nil {
		signDate = signedAt.Format("02.01.2006")
	}
	pdf.CellFormat(0, 8, fmt.Sprintf("%s: _______________ / %s /  %s", side, signer, signDate), "", 1, "L", false, 0, "")
}
