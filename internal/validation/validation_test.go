package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegister() RegisterInput {
	return RegisterInput{
		Name:      "Jane Doe",
		Email:     "jane@example.com",
		Password:  "secret123",
		Password2: "secret123",
	}
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(in *RegisterInput)
		field string
		want  string
	}{
		{"name too short", func(in *RegisterInput) { in.Name = "Ann" }, "name", "Name must be between 4 and 30 characters"},
		{"name too long", func(in *RegisterInput) { in.Name = strings.Repeat("a", 31) }, "name", "Name must be between 4 and 30 characters"},
		{"name empty", func(in *RegisterInput) { in.Name = "" }, "name", "Name field is required"},
		{"name whitespace only", func(in *RegisterInput) { in.Name = "    " }, "name", "Name field is required"},
		{"email invalid", func(in *RegisterInput) { in.Email = "not-an-email" }, "email", "Email is invalid"},
		{"email empty", func(in *RegisterInput) { in.Email = "" }, "email", "Email field is required"},
		{"password too short", func(in *RegisterInput) { in.Password, in.Password2 = "abc", "abc" }, "password", "Password must be at least 6 characters"},
		// The length rule runs last, so it wins over the required message.
		{"password empty", func(in *RegisterInput) { in.Password, in.Password2 = "", "" }, "password", "Password must be at least 6 characters"},
		{"passwords differ", func(in *RegisterInput) { in.Password2 = "secret124" }, "password_2", "Passwords must match"},
		{"confirmation empty", func(in *RegisterInput) { in.Password2 = "" }, "password_2", "Confirm Password field is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validRegister()
			tt.edit(&in)

			errs := Register(in)
			assert.False(t, errs.Valid())
			assert.Equal(t, tt.want, errs[tt.field])
		})
	}
}

func TestRegister_Valid(t *testing.T) {
	errs := Register(validRegister())
	assert.True(t, errs.Valid())
	assert.Empty(t, errs)
}

func TestRegister_NameBoundaries(t *testing.T) {
	in := validRegister()

	in.Name = "Anna"
	assert.NotContains(t, Register(in), "name")

	in.Name = strings.Repeat("a", 30)
	assert.NotContains(t, Register(in), "name")

	// Runes, not bytes.
	in.Name = "Zoë Ñ"
	assert.NotContains(t, Register(in), "name")
}

func TestRegister_NameLengthIgnoresSurroundingSpace(t *testing.T) {
	in := validRegister()
	in.Name = "  abc"
	assert.Equal(t, "Name must be between 4 and 30 characters", Register(in)["name"])

	in.Name = "  Anna  "
	assert.NotContains(t, Register(in), "name")
}

func TestRegister_PasswordByteLimit(t *testing.T) {
	in := validRegister()

	// 30 runes passes the rune bound but is 90 bytes.
	in.Password = strings.Repeat("密", 30)
	in.Password2 = in.Password
	assert.Equal(t, "Password must be at most 72 bytes", Register(in)["password"])

	in.Password = strings.Repeat("密", 24)
	in.Password2 = in.Password
	assert.True(t, Register(in).Valid())
}

func TestRegister_PasswordCheckedAsHashed(t *testing.T) {
	in := validRegister()

	// Surrounding spaces count toward the length and must match exactly.
	in.Password, in.Password2 = "  abcd", "  abcd"
	assert.True(t, Register(in).Valid())

	in.Password2 = "abcd"
	assert.Equal(t, "Passwords must match", Register(in)["password_2"])
}

func TestRegister_EmptyPayloadReportsEveryField(t *testing.T) {
	errs := Register(RegisterInput{})

	assert.Equal(t, Errors{
		"name":       "Name field is required",
		"email":      "Email field is required",
		"password":   "Password must be at least 6 characters",
		"password_2": "Confirm Password field is required",
	}, errs)
}

func TestMissingFieldMatchesEmptyString(t *testing.T) {
	kinds := []struct {
		kind   Kind
		fields []string
	}{
		{KindRegister, []string{"name", "email", "password", "password_2"}},
		{KindLogin, []string{"email", "password"}},
		{KindProfile, []string{"handle", "status", "skills"}},
		{KindExperience, []string{"title", "company", "from"}},
		{KindEducation, []string{"school", "degree", "fieldofstudy", "from"}},
		{KindPost, []string{"text"}},
	}

	for _, k := range kinds {
		t.Run(string(k.kind), func(t *testing.T) {
			missing, err := Validate(k.kind, map[string]string{})
			require.NoError(t, err)

			empty := map[string]string{}
			for _, f := range k.fields {
				empty[f] = ""
			}
			explicit, err := Validate(k.kind, empty)
			require.NoError(t, err)

			assert.Equal(t, missing, explicit)
			for _, f := range k.fields {
				assert.Contains(t, missing, f)
			}
		})
	}
}

func TestValidate_UnknownKind(t *testing.T) {
	_, err := Validate(Kind("bogus"), nil)
	assert.Error(t, err)
}

func TestLogin(t *testing.T) {
	assert.True(t, Login(LoginInput{Email: "jane@example.com", Password: "x"}).Valid())

	errs := Login(LoginInput{Email: "jane", Password: ""})
	assert.Equal(t, "Email is invalid", errs["email"])
	assert.Equal(t, "Password field is required", errs["password"])

	errs = Login(LoginInput{})
	assert.Equal(t, "Email field is required", errs["email"])
}

func TestProfile(t *testing.T) {
	valid := ProfileInput{Handle: "jane", Status: "Developer", Skills: "go,sql"}
	assert.True(t, Profile(valid).Valid())

	tests := []struct {
		name  string
		edit  func(in *ProfileInput)
		field string
		want  string
	}{
		{"handle too short", func(in *ProfileInput) { in.Handle = "j" }, "handle", "Handle needs to be between 2 and 40 characters"},
		{"handle too long", func(in *ProfileInput) { in.Handle = strings.Repeat("h", 41) }, "handle", "Handle needs to be between 2 and 40 characters"},
		{"handle empty", func(in *ProfileInput) { in.Handle = "" }, "handle", "Profile handle is required"},
		{"status empty", func(in *ProfileInput) { in.Status = " " }, "status", "Status field is required"},
		{"skills empty", func(in *ProfileInput) { in.Skills = "" }, "skills", "Skills field is required"},
		{"website invalid", func(in *ProfileInput) { in.Website = "not a url" }, "website", "Not a valid URL"},
		{"twitter invalid", func(in *ProfileInput) { in.Twitter = "http://bad host" }, "twitter", "Not a valid URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.edit(&in)
			assert.Equal(t, tt.want, Profile(in)[tt.field])
		})
	}
}

func TestProfile_HandleLengthIgnoresSurroundingSpace(t *testing.T) {
	in := ProfileInput{Handle: " a ", Status: "Developer", Skills: "go"}
	assert.Equal(t, "Handle needs to be between 2 and 40 characters", Profile(in)["handle"])

	in.Handle = "  jd  "
	assert.NotContains(t, Profile(in), "handle")
}

func TestProfile_WebsiteOptional(t *testing.T) {
	in := ProfileInput{Handle: "jane", Status: "Developer", Skills: "go"}

	for _, website := range []string{"", "   ", "https://jane.dev", "jane.dev"} {
		in.Website = website
		assert.NotContains(t, Profile(in), "website", "website %q", website)
	}
}

func TestExperience(t *testing.T) {
	assert.True(t, Experience(ExperienceInput{Title: "Dev", Company: "Acme", From: "2020-01-01"}).Valid())

	errs := Experience(ExperienceInput{Location: "Remote"})
	assert.Equal(t, Errors{
		"title":   "Job title field is required",
		"company": "Company field is required",
		"from":    "From date field is required",
	}, errs)
}

func TestEducation(t *testing.T) {
	assert.True(t, Education(EducationInput{School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: "2010-09-01"}).Valid())

	errs := Education(EducationInput{School: "MIT"})
	assert.Equal(t, Errors{
		"degree":       "Degree field is required",
		"fieldofstudy": "Field of study field is required",
		"from":         "From date field is required",
	}, errs)
}

func TestPost(t *testing.T) {
	assert.True(t, Post(PostInput{Text: "exactly10!"}).Valid())
	assert.True(t, Post(PostInput{Text: strings.Repeat("x", 300)}).Valid())

	assert.Equal(t, "Post must be between 10 and 300 characters", Post(PostInput{Text: "too short"})["text"])
	assert.Equal(t, "Post must be between 10 and 300 characters", Post(PostInput{Text: strings.Repeat("x", 301)})["text"])
	assert.Equal(t, "Text field is required", Post(PostInput{})["text"])
}

func TestPost_LengthIgnoresSurroundingSpace(t *testing.T) {
	assert.Equal(t, "Post must be between 10 and 300 characters", Post(PostInput{Text: "   123456789"})["text"])
	assert.True(t, Post(PostInput{Text: "  1234567890  "}).Valid())
}

func TestSplitSkills(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SplitSkills("a,b,c"))
	assert.Equal(t, []string{"go", "sql", "docker"}, SplitSkills(" go, sql,,docker "))
	assert.Empty(t, SplitSkills(""))
}

func TestSocialLinks(t *testing.T) {
	in := ProfileInput{Twitter: "https://twitter.com/jane", YouTube: "  "}
	assert.Equal(t, map[string]string{"twitter": "https://twitter.com/jane"}, in.SocialLinks())
}
