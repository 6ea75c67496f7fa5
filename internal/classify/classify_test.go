package classify

import "testing"

func TestByKeywords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "employment contract",
			text: "This employment contract sets the conditions between employer and employee, including salary and vacation.",
			want: "employment_contract",
		},
		{
			name: "payslip",
			text: "Payslip for January. Earnings: base salary. Deductions: income tax, social security. Net pay: 1800.",
			want: "payslip",
		},
		{
			name: "power of attorney",
			text: "This power of attorney grants power before me, the notary, for full representation.",
			want: "power_of_attorney",
		},
		{
			name: "no keywords",
			text: "This document has no clear markers at all.",
			want: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, conf := ByKeywords(tt.text)
			if got != tt.want {
				t.Errorf("type = %q (conf %v), want %q", got, conf, tt.want)
			}
			if tt.want == "unknown" && conf != 0.0 {
				t.Errorf("unknown must carry zero confidence, got %v", conf)
			}
			if tt.want != "unknown" && conf <= 0.0 {
				t.Errorf("detected type must carry positive confidence, got %v", conf)
			}
		})
	}
}

func TestRefine(t *testing.T) {
	contractText := "This employment contract sets the salary, vacation and working hours agreed by employer and employee."

	t.Run("agreement boosts confidence", func(t *testing.T) {
		_, baseConf := ByKeywords(contractText)
		got, conf := Refine("employment_contract", contractText)
		if got != "employment_contract" {
			t.Errorf("type = %q", got)
		}
		if conf <= baseConf {
			t.Errorf("conf = %v, want boost above %v", conf, baseConf)
		}
	})

	t.Run("keywords override unknown oracle type", func(t *testing.T) {
		got, conf := Refine("unknown", contractText)
		if got != "employment_contract" {
			t.Errorf("type = %q", got)
		}
		if conf <= 0 {
			t.Errorf("conf = %v", conf)
		}
	})

	t.Run("oracle wins a weak keyword signal", func(t *testing.T) {
		got, conf := Refine("certificate", "A short note mentioning salary once.")
		if got != "certificate" {
			t.Errorf("type = %q, oracle should win with conf 0.7 vs weak keywords", got)
		}
		if conf != 0.7 {
			t.Errorf("conf = %v, want 0.7", conf)
		}
	})

	t.Run("both unknown stays unknown", func(t *testing.T) {
		got, conf := Refine("unknown", "nothing recognizable in this text")
		if got != "unknown" {
			t.Errorf("type = %q", got)
		}
		if conf != 0.0 {
			t.Errorf("conf = %v", conf)
		}
	})
}
