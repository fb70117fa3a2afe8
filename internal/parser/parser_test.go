package parser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const testJavaSource = `package com.example.order;

import org.springframework.beans.factory.annotation.Autowired;

public class OrderService {

    @Autowired
    private OrderRepo repo;

    public Order place(Order order) {
        return repo.save(order);
    }

    private void audit() {
    }
}
`

func TestNewParser(t *testing.T) {
	t.Run("creates Java parser", func(t *testing.T) {
		p, err := NewParser(Java)
		if err != nil {
			t.Fatalf("NewParser(Java) failed: %v", err)
		}
		p.Close()
		p.Close()
	})

	t.Run("rejects unsupported language", func(t *testing.T) {
		_, err := NewParser(Language("fortran"))
		if err == nil {
			t.Fatal("expected error for unsupported language")
		}

		if _, ok := err.(*UnsupportedLanguageError); !ok {
			t.Errorf("expected UnsupportedLanguageError, got %T", err)
		}
	})
}

func TestParser_Parse(t *testing.T) {
	p, err := NewParser(Java)
	if err != nil {
		t.Fatalf("NewParser failed: %v", err)
	}
	defer p.Close()

	t.Run("parses valid Java source", func(t *testing.T) {
		result, err := p.Parse([]byte(testJavaSource))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		defer result.Close()

		if result.Root == nil {
			t.Fatal("expected non-nil root node")
		}
		if result.Root.Type() != "program" {
			t.Errorf("expected root type 'program', got %q", result.Root.Type())
		}
		if result.HasErrors() {
			t.Error("expected clean parse")
		}
		if result.FirstError() != nil {
			t.Error("expected no first error on clean parse")
		}
	})

	t.Run("reports syntax errors with a location", func(t *testing.T) {
		result, err := p.Parse([]byte("public class Broken { void x( }"))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		defer result.Close()

		if !result.HasErrors() {
			t.Fatal("expected syntax errors")
		}
		pe := result.FirstError()
		if pe == nil {
			t.Fatal("expected a ParseError")
		}
		if pe.Line != 1 || pe.Column == 0 {
			t.Errorf("expected error on line 1 with a column, got %d:%d", pe.Line, pe.Column)
		}
	})

	t.Run("names the file in the error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "Broken.java")
		if err := os.WriteFile(path, []byte("class Broken {\n    int x = ;\n}\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		result, err := p.ParseFile(path)
		if err != nil {
			t.Fatalf("ParseFile failed: %v", err)
		}
		defer result.Close()

		pe := result.FirstError()
		if pe == nil {
			t.Fatal("expected a ParseError")
		}
		if pe.File != path || pe.Line != 2 {
			t.Errorf("FirstError = %v, want %s on line 2", pe, path)
		}
	})
}

func TestParser_ParseFile(t *testing.T) {
	p, err := NewParser(Java)
	if err != nil {
		t.Fatalf("NewParser failed: %v", err)
	}
	defer p.Close()

	t.Run("records the file path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "OrderService.java")
		if err := os.WriteFile(path, []byte(testJavaSource), 0o644); err != nil {
			t.Fatal(err)
		}

		result, err := p.ParseFile(path)
		if err != nil {
			t.Fatalf("ParseFile failed: %v", err)
		}
		defer result.Close()

		if result.FilePath != path {
			t.Errorf("FilePath = %q, want %q", result.FilePath, path)
		}
	})

	t.Run("wraps missing files", func(t *testing.T) {
		_, err := p.ParseFile(filepath.Join(t.TempDir(), "Missing.java"))
		var fre *FileReadError
		if !errors.As(err, &fre) {
			t.Fatalf("expected FileReadError, got %T", err)
		}
		if !errors.Is(err, os.ErrNotExist) {
			t.Error("expected FileReadError to unwrap to os.ErrNotExist")
		}
	})
}

func TestChildHelpers(t *testing.T) {
	p, err := NewParser(Java)
	if err != nil {
		t.Fatalf("NewParser failed: %v", err)
	}
	defer p.Close()

	result, err := p.Parse([]byte(testJavaSource))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	defer result.Close()

	class := ChildByType(result.Root, "class_declaration")
	if !IsJavaTypeDeclaration(class) {
		t.Error("class_declaration should be a type declaration")
	}

	body := class.ChildByFieldName("body")
	if got := len(ChildrenByType(body, "method_declaration")); got != 2 {
		t.Errorf("ChildrenByType found %d methods, want 2", got)
	}
	if ChildByType(body, "field_declaration") == nil {
		t.Error("ChildByType should find the field declaration")
	}
	if ChildByType(nil, "anything") != nil {
		t.Error("ChildByType(nil) should return nil")
	}

	name := result.NodeText(class.ChildByFieldName("name"))
	if name != "OrderService" {
		t.Errorf("class name = %q, want OrderService", name)
	}
	if got := len(NamedChildren(result.Root)); got != 3 {
		t.Errorf("NamedChildren(root) = %d, want package, import and class", got)
	}
}
