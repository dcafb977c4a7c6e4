package constants

import "fmt"

// Role user di platform tutoring
const (
	RoleStudent   = "student"
	RoleTutor     = "tutor"
	RoleAdmin     = "admin"
	RoleApplicant = "applicant" // pelamar tutor, belum diverifikasi
)

// Template pesan error role
const (
	ErrOnlyTutorsCanAccess   = "❌ Hanya tutor yang boleh mengakses fitur %s."
	ErrOnlyStudentsCanAccess = "❌ Hanya student yang boleh mengakses fitur %s."
	ErrOnlyAdminsCanAccess   = "❌ Hanya admin yang boleh mengakses fitur %s."
)

// Fungsi helper untuk menghasilkan pesan error dinamis
func RoleErrorTutor(feature string) string {
	return fmt.Sprintf(ErrOnlyTutorsCanAccess, feature)
}

func RoleErrorStudent(feature string) string {
	return fmt.Sprintf(ErrOnlyStudentsCanAccess, feature)
}

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleStudent,
		RoleTutor,
		RoleAdmin,
		RoleApplicant,
	}

	TutorAndAdmin = []string{
		RoleTutor,
		RoleAdmin,
	}

	StudentAndAdmin = []string{
		RoleStudent,
		RoleAdmin,
	}

	AdminOnly = []string{
		RoleAdmin,
	}
)
