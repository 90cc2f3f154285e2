package validator

import "testing"

type contactForm struct {
	Name  string `json:"customer_name" validate:"required"`
	Email string `json:"customer_email" validate:"required,mailshape"`
	Phone string `json:"customer_phone" validate:"required,dialphone"`
}

func TestMailShape(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"foo@bar.com", true},
		{"first.last@sub.example.co.id", true},
		{"foo@bar", false},
		{"foo bar@baz.com", false},
		{"@bar.com", false},
		{"", false},
	}

	for _, tt := range tests {
		err := ValidateVar(tt.email, "mailshape")
		if (err == nil) != tt.valid {
			t.Fatalf("email %q: expected valid=%v, got err=%v", tt.email, tt.valid, err)
		}
	}
}

func TestDialPhone(t *testing.T) {
	tests := []struct {
		phone string
		valid bool
	}{
		{"+6281234567890", true},
		{"6281234567890", true},
		{"+14155552671", true},
		{"12345678", true},
		{"1234567", false},
		{"123", false},
		{"0812345678", false},
		{"+0123", false},
		{"+1234567890123456", false},
		{"+62 812", false},
		{"1", false},
	}

	for _, tt := range tests {
		err := ValidateVar(tt.phone, "dialphone")
		if (err == nil) != tt.valid {
			t.Fatalf("phone %q: expected valid=%v, got err=%v", tt.phone, tt.valid, err)
		}
	}
}

func TestValidateUsesJSONNames(t *testing.T) {
	errs := Validate(contactForm{Name: "", Email: "foo@bar", Phone: "+6281234567890"})
	if len(errs) != 2 {
		t.Fatalf("expected 2 field errors, got %v", errs)
	}
	if _, ok := errs["customer_name"]; !ok {
		t.Fatalf("expected customer_name error, got %v", errs)
	}
	if errs["customer_email"] != "Please enter a valid email address" {
		t.Fatalf("unexpected email message %q", errs["customer_email"])
	}

	if errs := Validate(contactForm{Name: "Budi", Email: "foo@bar.com", Phone: "+6281234567890"}); errs != nil {
		t.Fatalf("expected no errors, got %v", errs)
	}
}
