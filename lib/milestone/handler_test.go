package milestonehandler

import (
	"context"
	"testing"
	"time"

	pdfexport "pm-tools-backend/lib/export/pdf"
	filestorage "pm-tools-backend/lib/file-storage"
	"pm-tools-backend/lib/workflow"
	"pm-tools-backend/models"
	dbmodels "pm-tools-backend/models/db"

	"github.com/stretchr/testify/require"
)

type memCerts struct {
	rec *dbmodels.MilestoneCertificate
}

func (m *memCerts) Create(rec dbmodels.MilestoneCertificate) (string, error) {
	m.rec = &rec
	return rec.ID, nil
}

func (m *memCerts) GetByID(spaceID, id string) (*dbmodels.MilestoneCertificate, error) {
	return m.rec, nil
}

func (m *memCerts) GetByIDForUpdate(spaceID, id string) (*dbmodels.MilestoneCertificate, error) {
	return m.rec, nil
}

func (m *memCerts) GetByMilestoneID(spaceID, milestoneID string) (*dbmodels.MilestoneCertificate, error) {
	return m.rec, nil
}

func (m *memCerts) GetByMilestoneIDForUpdate(spaceID, milestoneID string) (*dbmodels.MilestoneCertificate, error) {
	return m.rec, nil
}

func (m *memCerts) Update(spaceID, id string, updMap map[string]interface{}) error {
	if v, ok := updMap["cert_number"].(string); ok {
		m.rec.CertNumber = v
	}
	if v, ok := updMap["applied_at"].(time.Time); ok {
		m.rec.AppliedAt = &v
	}
	if v, ok := updMap["file_id"].(string); ok {
		m.rec.FileID = &v
	}
	return nil
}

func (m *memCerts) Save(rec workflow.Entity, expected models.WfStatus) error { return nil }

type memMilestones struct {
	rec *dbmodels.Milestone
}

func (m *memMilestones) Create(rec dbmodels.Milestone) (string, error) { return "", nil }

func (m *memMilestones) GetByID(spaceID, id string) (*dbmodels.Milestone, error) {
	return m.rec, nil
}

func (m *memMilestones) GetByIDForUpdate(spaceID, id string) (*dbmodels.Milestone, error) {
	return m.rec, nil
}

func (m *memMilestones) Update(spaceID, id string, updMap map[string]interface{}) error {
	return nil
}

func (m *memMilestones) Delete(spaceID, id string) error { return nil }

func (m *memMilestones) List(spaceID, projectID string) ([]dbmodels.Milestone, error) {
	return nil, nil
}

type memProjects struct {
	rec *dbmodels.Project
}

func (m *memProjects) Create(rec dbmodels.Project) (string, error) { return "", nil }

func (m *memProjects) GetByID(spaceID, id string) (*dbmodels.Project, error) {
	return m.rec, nil
}

func (m *memProjects) Update(spaceID, id string, updMap map[string]interface{}) error { return nil }

func (m *memProjects) Delete(spaceID, id string) error { return nil }

func (m *memProjects) List(spaceID string) ([]dbmodels.Project, error) { return nil, nil }

type memUsers struct{}

func (memUsers) Create(rec dbmodels.SpaceUser) (string, error)             { return "", nil }
func (memUsers) Update(userID string, updMap map[string]interface{}) error { return nil }
func (memUsers) Delete(userID string) error                                { return nil }
func (memUsers) GetList(spaceID string, page, limit int) ([]dbmodels.SpaceUser, error) {
	return nil, nil
}
func (memUsers) ExistByEmail(email string) (bool, error)                { return false, nil }
func (memUsers) FindByEmail(email string) (*dbmodels.SpaceUser, error)  { return nil, nil }
func (memUsers) GetByID(userID string) (*dbmodels.SpaceUser, error)     { return nil, nil }
func (memUsers) ListByRoles(spaceID string, roles []models.UserRole) ([]dbmodels.SpaceUser, error) {
	return nil, nil
}

type memNumbers struct {
	calls int
}

func (m *memNumbers) Next(spaceID string) (string, error) {
	m.calls++
	return "АКТ-2025-0042", nil
}

type memFiles struct {
	data    map[string][]byte
	names   map[string]string
	uploads int
}

func newMemFiles() *memFiles {
	return &memFiles{data: map[string][]byte{}, names: map[string]string{}}
}

func (m *memFiles) Upload(ctx context.Context, spaceID, fileName, contentType string, data []byte) (string, error) {
	m.uploads++
	fileID := "file-1"
	m.data[fileID] = data
	m.names[fileID] = fileName
	return fileID, nil
}

func (m *memFiles) GetFile(ctx context.Context, spaceID, fileID string) ([]byte, *dbmodels.FileRecord, error) {
	rec := &dbmodels.FileRecord{Name: m.names[fileID], ContentType: "application/pdf"}
	return m.data[fileID], rec, nil
}

func (m *memFiles) MakeSpaceBucket(ctx context.Context, spaceID string) error { return nil }

func newHandler(certs *memCerts, numbers *memNumbers) impl {
	milestone := &dbmodels.Milestone{
		ProjectID:   "p-1",
		Name:        "Проектирование",
		ActualCost:  120000,
		ActualHours: 40,
	}
	milestone.ID = "m-1"
	milestone.SpaceID = "space-1"
	project := &dbmodels.Project{
		Name:         "Внедрение CRM",
		CustomerName: "ООО Ромашка",
		SupplierName: "ООО Интегратор",
	}
	project.ID = "p-1"
	project.SpaceID = "space-1"
	return impl{
		store:        &memMilestones{rec: milestone},
		certStore:    certs,
		projectStore: &memProjects{rec: project},
		usersStore:   memUsers{},
		certNumbers:  numbers,
		genPDF: func(data pdfexport.CertificateData) ([]byte, error) {
			return []byte("%PDF " + data.Number), nil
		},
	}
}

func signedCert(fileID *string) *dbmodels.MilestoneCertificate {
	cert := &dbmodels.MilestoneCertificate{
		MilestoneID: "m-1",
		Status:      models.CertStatusSigned,
		FileID:      fileID,
	}
	cert.ID = "cert-1"
	cert.SpaceID = "space-1"
	return cert
}

func withFakeFiles(t *testing.T) *memFiles {
	files := newMemFiles()
	prev := filestorage.Instance
	filestorage.Instance = files
	t.Cleanup(func() { filestorage.Instance = prev })
	return files
}

func TestGetCertFile(t *testing.T) {
	t.Run("подписанный акт без печатной формы дооформляется при чтении", func(t *testing.T) {
		files := withFakeFiles(t)
		certs := &memCerts{rec: signedCert(nil)}
		numbers := &memNumbers{}
		h := newHandler(certs, numbers)

		data, rec, err := h.GetCertFile(context.Background(), "space-1", "m-1")
		require.Nil(t, err)
		require.Equal(t, []byte("%PDF АКТ-2025-0042"), data)
		require.Equal(t, "АКТ-2025-0042.pdf", rec.Name)

		require.Equal(t, 1, numbers.calls)
		require.Equal(t, 1, files.uploads)
		require.NotNil(t, certs.rec.FileID)
		require.Equal(t, "АКТ-2025-0042", certs.rec.CertNumber)
		require.NotNil(t, certs.rec.AppliedAt)
	})

	t.Run("повторное чтение не оформляет акт заново", func(t *testing.T) {
		files := withFakeFiles(t)
		certs := &memCerts{rec: signedCert(nil)}
		numbers := &memNumbers{}
		h := newHandler(certs, numbers)

		_, _, err := h.GetCertFile(context.Background(), "space-1", "m-1")
		require.Nil(t, err)
		_, _, err = h.GetCertFile(context.Background(), "space-1", "m-1")
		require.Nil(t, err)

		require.Equal(t, 1, numbers.calls)
		require.Equal(t, 1, files.uploads)
	})

	t.Run("до подписания печатная форма недоступна", func(t *testing.T) {
		withFakeFiles(t)
		cert := signedCert(nil)
		cert.Status = models.CertStatusRequested
		certs := &memCerts{rec: cert}
		h := newHandler(certs, &memNumbers{})

		_, _, err := h.GetCertFile(context.Background(), "space-1", "m-1")
		require.NotNil(t, err)
	})
}

func TestFinalizeCert(t *testing.T) {
	t.Run("оформленный акт не трогается повторным вызовом", func(t *testing.T) {
		files := withFakeFiles(t)
		fileID := "file-old"
		certs := &memCerts{rec: signedCert(&fileID)}
		numbers := &memNumbers{}
		h := newHandler(certs, numbers)

		require.Nil(t, h.finalizeCert("space-1", "cert-1"))

		require.Equal(t, 0, numbers.calls)
		require.Equal(t, 0, files.uploads)
		require.Equal(t, "file-old", *certs.rec.FileID)
	})

	t.Run("неподписанный акт не оформляется", func(t *testing.T) {
		withFakeFiles(t)
		cert := signedCert(nil)
		cert.Status = models.CertStatusRequested
		certs := &memCerts{rec: cert}
		h := newHandler(certs, &memNumbers{})

		require.NotNil(t, h.finalizeCert("space-1", "cert-1"))
		require.Nil(t, certs.rec.FileID)
	})
}
