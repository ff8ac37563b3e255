package caseforge

import "testing"

func TestExtractAcceptanceCriteria(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        string
	}{
		{
			name:        "english marker",
			description: "Login feature.\n\nAcceptance Criteria:\n- valid login works\n- lockout after 5 tries",
			want:        "- valid login works\n- lockout after 5 tries",
		},
		{
			name:        "singular criterion",
			description: "Acceptance criteria: must respond in 2s",
			want:        "must respond in 2s",
		},
		{
			name:        "short ac marker",
			description: "Some text.\n\nAC: password reset sends mail",
			want:        "password reset sends mail",
		},
		{
			name:        "stops at blank line",
			description: "Acceptance criteria:\nfirst\nsecond\n\nunrelated trailing text",
			want:        "first\nsecond",
		},
		{
			name:        "korean test condition marker",
			description: "기능 설명.\n\n테스트 조건:\n로그인 성공 확인",
			want:        "로그인 성공 확인",
		},
		{
			name:        "korean verification marker",
			description: "검증 조건: 응답 시간 2초 이내",
			want:        "응답 시간 2초 이내",
		},
		{
			name:        "case insensitive",
			description: "ACCEPTANCE CRITERIA: anything goes",
			want:        "anything goes",
		},
		{
			name:        "no marker",
			description: "just a plain description with no markers at all",
			want:        "",
		},
		{
			name:        "empty description",
			description: "",
			want:        "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractAcceptanceCriteria(tt.description)
			if got != tt.want {
				t.Errorf("ExtractAcceptanceCriteria() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractAcceptanceCriteriaDeterministic(t *testing.T) {
	description := "Acceptance criteria:\n- a\n- b\n\nrest"
	first := ExtractAcceptanceCriteria(description)
	second := ExtractAcceptanceCriteria(description)
	if first != second {
		t.Errorf("extraction not deterministic: %q vs %q", first, second)
	}
}
