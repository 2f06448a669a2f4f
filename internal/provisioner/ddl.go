package provisioner

import "fmt"

// ddlStatements returns the ordered DDL for one tenant schema. The
// schema name is interpolated, not parameterized: DDL cannot take bind
// parameters, and the caller has already validated the name against the
// generated-name pattern. Statements are kept separate because the
// extended query protocol executes one statement per Exec.
func ddlStatements(schema string) []string {
	q := func(format string) string {
		return fmt.Sprintf(format, quoteIdentifier(schema))
	}

	return []string{
		q(`CREATE SCHEMA %s`),
		q(`CREATE TABLE %s.users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			username TEXT NOT NULL UNIQUE,
			firstname TEXT NOT NULL DEFAULT '',
			lastname TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`),
		q(`CREATE TABLE %s.books (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			title TEXT NOT NULL,
			author TEXT NOT NULL,
			isbn TEXT,
			publisher TEXT,
			publication_year INT,
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`),
		q(`CREATE TABLE %s.borrowings (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			book_id UUID NOT NULL REFERENCES %[1]s.books (id),
			user_id UUID NOT NULL REFERENCES %[1]s.users (id),
			borrow_date DATE NOT NULL,
			due_date DATE NOT NULL,
			return_date DATE,
			status TEXT NOT NULL DEFAULT 'borrowed',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`),
		q(`CREATE INDEX users_username_idx ON %s.users (username)`),
		q(`CREATE INDEX books_title_idx ON %s.books (title)`),
		q(`CREATE INDEX books_author_idx ON %s.books (author)`),
	}
}

// dropSchemaStatement is the compensating DDL for a failed provisioning
// run.
func dropSchemaStatement(schema string) string {
	return fmt.Sprintf(`DROP SCHEMA IF EXISTS %s CASCADE`, quoteIdentifier(schema))
}

// quoteIdentifier wraps an identifier in double quotes, doubling any
// embedded quotes.
func quoteIdentifier(name string) string {
	quoted := `"`
	for _, r := range name {
		if r == '"' {
			quoted += `""`
		} else {
			quoted += string(r)
		}
	}
	return quoted + `"`
}
