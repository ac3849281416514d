package kommo

type CreateLeadInput struct {
	LeadID       string
	CustomerName string
	Phone        string
	Email        string
	Category     string
	Class        string
	Batch        string
}

type ContactResponse struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type embeddedResponse struct {
	Embedded struct {
		Leads []struct {
			ID int `json:"id"`
		} `json:"leads"`
		Contacts []ContactResponse `json:"contacts"`
	} `json:"_embedded"`
}
