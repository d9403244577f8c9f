package profile

// Vocabulary holds the fixed term lists matched against resume text.
// Terms are lower case; matching is substring based, so multi-word terms
// like "power bi" work too.
type Vocabulary struct {
	Titles []string
	Skills []string
}

// DefaultVocabulary covers common Spanish and English job titles,
// degrees, and technical/soft skills.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Titles: []string{
			"ingeniero", "engineer", "developer", "desarrollador", "programador",
			"architect", "arquitecto", "manager", "gerente", "analyst", "analista",
			"scientist", "científico", "administrator", "administrador", "technician",
			"técnico", "consultant", "consultor", "director", "coordinator", "coordinador",
			"specialist", "especialista", "designer", "diseñador", "bachelor", "licenciado",
			"master", "maestría", "phd", "doctorado",
		},
		Skills: []string{
			"python", "java", "javascript", "typescript", "sql", "nosql", "aws", "azure",
			"docker", "kubernetes", "react", "angular", "vue", "node", "django", "flask",
			"git", "linux", "excel", "power bi", "tableau", "salesforce", "sap",
			"leadership", "liderazgo", "communication", "comunicación", "english", "inglés",
			"agile", "scrum", "kanban", "marketing", "sales", "ventas",
		},
	}
}
