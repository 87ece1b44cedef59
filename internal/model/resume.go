package model

// Form field names accepted by POST /generate.
const (
	FieldName       = "name"
	FieldEmail      = "email"
	FieldSkills     = "skills"
	FieldExperience = "experience"
)

// FormFields lists the submitted fields in form order.
var FormFields = []string{FieldName, FieldEmail, FieldSkills, FieldExperience}

// ResumeRecord is the validated input of one PDF generation.
type ResumeRecord struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Skills     string `json:"skills"`
	Experience string `json:"experience"`
}

// RecordFromMap builds a record from a map that already passed Validate.
// Values are kept as submitted.
func RecordFromMap(m map[string]interface{}) ResumeRecord {
	get := func(k string) string {
		s, _ := m[k].(string)
		return s
	}
	return ResumeRecord{
		Name:       get(FieldName),
		Email:      get(FieldEmail),
		Skills:     get(FieldSkills),
		Experience: get(FieldExperience),
	}
}

// ToMap is the inverse of RecordFromMap.
func (r ResumeRecord) ToMap() map[string]interface{} {
	return map[string]interface{}{
		FieldName:       r.Name,
		FieldEmail:      r.Email,
		FieldSkills:     r.Skills,
		FieldExperience: r.Experience,
	}
}
