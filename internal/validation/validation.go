// Package validation checks the shape of request payloads before any store access.
//
// Each operation has one function that takes the decoded request body and
// returns an Errors map keyed by JSON field name. Rules run in a fixed order
// and a later failing rule overwrites the message of an earlier one on the
// same field, so callers always see exactly one message per field.
//
// Text input is trimmed before any rule runs, so a missing field, an empty
// string and a whitespace-only string all behave the same and length bounds
// apply to the value the services store. Passwords are the exception: they
// are checked exactly as they will be hashed.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Errors maps a field name to a human-readable message.
type Errors map[string]string

// Valid reports whether no rule failed.
func (e Errors) Valid() bool {
	return len(e) == 0
}

// Kind names an operation whose payload can be validated.
type Kind string

const (
	KindRegister   Kind = "register"
	KindLogin      Kind = "login"
	KindProfile    Kind = "profile"
	KindExperience Kind = "experience"
	KindEducation  Kind = "education"
	KindPost       Kind = "post"
)

// Length bounds, counted in runes.
const (
	NameMinLength     = 4
	NameMaxLength     = 30
	PasswordMinLength = 6
	PasswordMaxLength = 30
	HandleMinLength   = 2
	HandleMaxLength   = 40
	TextMinLength     = 10
	TextMaxLength     = 300
)

// PasswordMaxBytes is the most input bcrypt will hash. It is counted in
// bytes, so a password of 30 multi-byte runes can still exceed it.
const PasswordMaxBytes = 72

// validate is safe for concurrent use and caches parsed tags.
var validate = validator.New()

// RegisterInput is the body of POST /api/users/register.
type RegisterInput struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password_2"`
}

// LoginInput is the body of POST /api/users/login.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileInput is the body of POST /api/profile. Skills is the raw
// comma-separated list; social links arrive as flat fields and are nested
// under "social" on the stored profile.
type ProfileInput struct {
	Handle         string `json:"handle"`
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	Status         string `json:"status"`
	Skills         string `json:"skills"`
	GitHubUsername string `json:"githubusername"`
	YouTube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	LinkedIn       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
}

// SocialLinks returns the non-blank social fields keyed by platform.
func (in ProfileInput) SocialLinks() map[string]string {
	links := make(map[string]string)
	for platform, v := range map[string]string{
		"youtube":   in.YouTube,
		"twitter":   in.Twitter,
		"facebook":  in.Facebook,
		"linkedin":  in.LinkedIn,
		"instagram": in.Instagram,
	} {
		if v = blank(v); v != "" {
			links[platform] = v
		}
	}
	return links
}

// ExperienceInput is one work entry for POST /api/profile/experience.
// From and To are stored as the client sent them.
type ExperienceInput struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	From        string `json:"from"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// EducationInput is one school entry for POST /api/profile/education.
type EducationInput struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldofstudy"`
	From         string `json:"from"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

// PostInput is shared by posts and comments.
type PostInput struct {
	Text string `json:"text"`
}

// Register checks a registration payload.
//
// The name bound is 4..30 runes. An empty password reports the length
// message because the length rule runs after the required rule.
func Register(in RegisterInput) Errors {
	errs := Errors{}
	name := blank(in.Name)
	email := blank(in.Email)
	password := in.Password
	password2 := in.Password2

	if !lengthBetween(name, NameMinLength, NameMaxLength) {
		errs["name"] = fmt.Sprintf("Name must be between %d and %d characters", NameMinLength, NameMaxLength)
	}
	if name == "" {
		errs["name"] = "Name field is required"
	}

	if !isEmail(email) {
		errs["email"] = "Email is invalid"
	}
	if email == "" {
		errs["email"] = "Email field is required"
	}

	if blank(password) == "" {
		errs["password"] = "Password field is required"
	}
	if !lengthBetween(password, PasswordMinLength, PasswordMaxLength) {
		errs["password"] = fmt.Sprintf("Password must be at least %d characters", PasswordMinLength)
	}
	if len(password) > PasswordMaxBytes {
		errs["password"] = fmt.Sprintf("Password must be at most %d bytes", PasswordMaxBytes)
	}

	if password != password2 {
		errs["password_2"] = "Passwords must match"
	}
	if blank(password2) == "" {
		errs["password_2"] = "Confirm Password field is required"
	}

	return errs
}

// Login checks a login payload.
func Login(in LoginInput) Errors {
	errs := Errors{}
	email := blank(in.Email)

	if !isEmail(email) {
		errs["email"] = "Email is invalid"
	}
	if email == "" {
		errs["email"] = "Email field is required"
	}
	if blank(in.Password) == "" {
		errs["password"] = "Password field is required"
	}

	return errs
}

// Profile checks a create-or-update profile payload.
func Profile(in ProfileInput) Errors {
	errs := Errors{}
	handle := blank(in.Handle)

	if !lengthBetween(handle, HandleMinLength, HandleMaxLength) {
		errs["handle"] = fmt.Sprintf("Handle needs to be between %d and %d characters", HandleMinLength, HandleMaxLength)
	}
	if handle == "" {
		errs["handle"] = "Profile handle is required"
	}
	if blank(in.Status) == "" {
		errs["status"] = "Status field is required"
	}
	if blank(in.Skills) == "" {
		errs["skills"] = "Skills field is required"
	}

	optionalURL := []struct {
		field string
		value string
	}{
		{"website", in.Website},
		{"youtube", in.YouTube},
		{"twitter", in.Twitter},
		{"facebook", in.Facebook},
		{"linkedin", in.LinkedIn},
		{"instagram", in.Instagram},
	}
	for _, u := range optionalURL {
		if v := blank(u.value); v != "" && !isURL(v) {
			errs[u.field] = "Not a valid URL"
		}
	}

	return errs
}

// Experience checks an experience entry.
func Experience(in ExperienceInput) Errors {
	errs := Errors{}
	if blank(in.Title) == "" {
		errs["title"] = "Job title field is required"
	}
	if blank(in.Company) == "" {
		errs["company"] = "Company field is required"
	}
	if blank(in.From) == "" {
		errs["from"] = "From date field is required"
	}
	return errs
}

// Education checks an education entry.
func Education(in EducationInput) Errors {
	errs := Errors{}
	if blank(in.School) == "" {
		errs["school"] = "School field is required"
	}
	if blank(in.Degree) == "" {
		errs["degree"] = "Degree field is required"
	}
	if blank(in.FieldOfStudy) == "" {
		errs["fieldofstudy"] = "Field of study field is required"
	}
	if blank(in.From) == "" {
		errs["from"] = "From date field is required"
	}
	return errs
}

// Post checks post and comment text.
func Post(in PostInput) Errors {
	errs := Errors{}
	text := blank(in.Text)

	if !lengthBetween(text, TextMinLength, TextMaxLength) {
		errs["text"] = fmt.Sprintf("Post must be between %d and %d characters", TextMinLength, TextMaxLength)
	}
	if text == "" {
		errs["text"] = "Text field is required"
	}
	return errs
}

// Validate dispatches a loosely typed payload, keyed by JSON field name, to
// the rules for kind. Absent keys read as empty strings.
func Validate(kind Kind, payload map[string]string) (Errors, error) {
	get := func(key string) string { return payload[key] }

	switch kind {
	case KindRegister:
		return Register(RegisterInput{
			Name:      get("name"),
			Email:     get("email"),
			Password:  get("password"),
			Password2: get("password_2"),
		}), nil
	case KindLogin:
		return Login(LoginInput{Email: get("email"), Password: get("password")}), nil
	case KindProfile:
		return Profile(ProfileInput{
			Handle:         get("handle"),
			Company:        get("company"),
			Website:        get("website"),
			Location:       get("location"),
			Bio:            get("bio"),
			Status:         get("status"),
			Skills:         get("skills"),
			GitHubUsername: get("githubusername"),
			YouTube:        get("youtube"),
			Twitter:        get("twitter"),
			Facebook:       get("facebook"),
			LinkedIn:       get("linkedin"),
			Instagram:      get("instagram"),
		}), nil
	case KindExperience:
		return Experience(ExperienceInput{
			Title:   get("title"),
			Company: get("company"),
			From:    get("from"),
		}), nil
	case KindEducation:
		return Education(EducationInput{
			School:       get("school"),
			Degree:       get("degree"),
			FieldOfStudy: get("fieldofstudy"),
			From:         get("from"),
		}), nil
	case KindPost:
		return Post(PostInput{Text: get("text")}), nil
	default:
		return nil, fmt.Errorf("validation: unknown kind %q", kind)
	}
}

// SplitSkills turns "go, sql,,docker" into ["go", "sql", "docker"].
func SplitSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			skills = append(skills, p)
		}
	}
	return skills
}

// blank returns s without surrounding whitespace.
func blank(s string) string {
	return strings.TrimSpace(s)
}

func lengthBetween(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}

func isEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

// isURL accepts bare hosts such as "example.com" as well as full URLs.
func isURL(s string) bool {
	if validate.Var(s, "url") == nil {
		return true
	}
	if strings.Contains(s, "://") {
		return false
	}
	return validate.Var("http://"+s, "url") == nil
}
