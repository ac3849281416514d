package entity

var ExamCategories = []string{
	"JEE (Main + Advanced)",
	"NEET (UG)",
	"SSC",
	"Banking",
	"UPSC",
	"State PSC",
	"11&12 Science",
	"11&12 Commerce",
	"11&12 Arts",
	"Foundation",
	"Olympiad",
	"GATE",
	"CA",
	"CS",
	"Law",
	"MBA",
}

var Classes = []string{
	"Class 9",
	"Class 10",
	"Class 11",
	"Class 12",
	"Dropper",
	"College/Grad",
}

func IsExamCategory(v string) bool {
	return contains(ExamCategories, v)
}

func IsClass(v string) bool {
	return contains(Classes, v)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
