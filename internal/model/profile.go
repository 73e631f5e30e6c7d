package model

import "time"

// Profile is the one-per-user public profile.
//
// Experience and Education are embedded and kept newest first.
type Profile struct {
	ID             string            `json:"_id"                      bson:"_id"`
	UserID         string            `json:"-"                        bson:"user"`
	User           *Author           `json:"user,omitempty"           bson:"-"`
	Handle         string            `json:"handle"                   bson:"handle"`
	Company        string            `json:"company,omitempty"        bson:"company,omitempty"`
	Website        string            `json:"website,omitempty"        bson:"website,omitempty"`
	Location       string            `json:"location,omitempty"       bson:"location,omitempty"`
	Status         string            `json:"status"                   bson:"status"`
	Skills         []string          `json:"skills"                   bson:"skills"`
	Bio            string            `json:"bio,omitempty"            bson:"bio,omitempty"`
	GitHubUsername string            `json:"githubusername,omitempty" bson:"githubusername,omitempty"`
	Social         map[string]string `json:"social"                   bson:"social"`
	Experience     []Experience      `json:"experience"               bson:"experience"`
	Education      []Education       `json:"education"                bson:"education"`
	Date           time.Time         `json:"date"                     bson:"date"`
}

// Experience is one job on a profile.
type Experience struct {
	ID          string `json:"_id"                   bson:"_id"`
	Title       string `json:"title"                 bson:"title"`
	Company     string `json:"company"               bson:"company"`
	Location    string `json:"location,omitempty"    bson:"location,omitempty"`
	From        string `json:"from"                  bson:"from"`
	To          string `json:"to,omitempty"          bson:"to,omitempty"`
	Current     bool   `json:"current"               bson:"current"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
}

// Education is one school on a profile.
type Education struct {
	ID           string `json:"_id"                   bson:"_id"`
	School       string `json:"school"                bson:"school"`
	Degree       string `json:"degree"                bson:"degree"`
	FieldOfStudy string `json:"fieldofstudy"          bson:"fieldofstudy"`
	From         string `json:"from"                  bson:"from"`
	To           string `json:"to,omitempty"          bson:"to,omitempty"`
	Current      bool   `json:"current"               bson:"current"`
	Description  string `json:"description,omitempty" bson:"description,omitempty"`
}

// RemoveExperience drops the entry with the given id and reports whether it existed.
func (p *Profile) RemoveExperience(id string) bool {
	for i := range p.Experience {
		if p.Experience[i].ID == id {
			p.Experience = append(p.Experience[:i:i], p.Experience[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveEducation drops the entry with the given id and reports whether it existed.
func (p *Profile) RemoveEducation(id string) bool {
	for i := range p.Education {
		if p.Education[i].ID == id {
			p.Education = append(p.Education[:i:i], p.Education[i+1:]...)
			return true
		}
	}
	return false
}

// Normalize replaces nil collections with empty ones so they encode as [] and {}.
func (p *Profile) Normalize() {
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Social == nil {
		p.Social = map[string]string{}
	}
	if p.Experience == nil {
		p.Experience = []Experience{}
	}
	if p.Education == nil {
		p.Education = []Education{}
	}
}
