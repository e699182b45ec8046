package core

import "testing"

func TestInferLanguage(t *testing.T) {
	tests := []struct {
		name     string
		declared string
		task     string
		want     string
	}{
		{
			name:     "empty inputs default to python",
			declared: "",
			task:     "",
			want:     "python",
		},
		{
			name:     "declared language used when nothing mentioned",
			declared: "  Java  ",
			task:     "",
			want:     "java",
		},
		{
			name:     "default python when task has no language",
			declared: "",
			task:     "write a function to reverse a string",
			want:     "python",
		},
		{
			name:     "mention overrides declared language",
			declared: "go",
			task:     "please write this in Rust",
			want:     "rust",
		},
		{
			name:     "non-python mention beats python mention",
			declared: "",
			task:     "here is my python snippet, convert it to Rust",
			want:     "rust",
		},
		{
			name:     "python mention beats declared language",
			declared: "java",
			task:     "rewrite this as idiomatic python",
			want:     "python",
		},
		{
			name:     "go code phrase",
			declared: "",
			task:     "explain this Go code",
			want:     "go",
		},
		{
			name:     "typescript mention",
			declared: "",
			task:     "convert the snippet to typescript",
			want:     "typescript",
		},
		{
			name:     "obfuscated c plus plus spelling",
			declared: "",
			task:     "rewrite c p p code for me",
			want:     "c++",
		},
		{
			name:     "c sharp spelled out",
			declared: "",
			task:     "show me a c sharp example",
			want:     "c#",
		},
		{
			name:     "table order breaks ties",
			declared: "",
			task:     "port this from javascript to rust",
			want:     "javascript",
		},
		{
			name:     "php mention",
			declared: "python",
			task:     "make a hello world in php",
			want:     "php",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferLanguage(tt.declared, tt.task)
			if got != tt.want {
				t.Errorf("InferLanguage(%q, %q) = %q, want %q", tt.declared, tt.task, got, tt.want)
			}
		})
	}
}
