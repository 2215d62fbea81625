package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/Tomas-vilte/MateTest/internal/domain/models"
	"github.com/Tomas-vilte/MateTest/internal/domain/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSourceFile(t *testing.T, dir, path, content string) {
	t.Helper()
	fullPath := filepath.Join(dir, path)
	require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0755))
	require.NoError(t, os.WriteFile(fullPath, []byte(content), 0644))
}

func TestBuild(t *testing.T) {
	t.Run("should be deterministic for the same change set", func(t *testing.T) {
		dir := t.TempDir()
		writeSourceFile(t, dir, "src/auth/login.ts", `
import { api } from "../api"
export function login() {}
`)
		writeSourceFile(t, dir, "src/routes.ts", `
const routes = [{ path: "/home" }, { path: "/login" }]
`)

		builder := NewContextBuilder(dir)
		changeSet := models.ChangeSet{
			Changes: []models.ChangeRecord{
				{Status: models.StatusModified, FilePath: "src/auth/login.ts"},
				{Status: models.StatusAdded, FilePath: "src/routes.ts"},
			},
			BranchInfo: models.BranchInfo{Branch: "feature/login", CommitHash: "abc123"},
		}

		first := builder.Build(context.Background(), changeSet, ports.ScopeWorking)
		second := builder.Build(context.Background(), changeSet, ports.ScopeWorking)

		assert.Equal(t, first, second)
	})

	t.Run("should describe scope branch and file counts", func(t *testing.T) {
		dir := t.TempDir()
		writeSourceFile(t, dir, "src/a.ts", "export const a = 1\n")
		writeSourceFile(t, dir, "src/b.ts", "export const b = 2\n")

		builder := NewContextBuilder(dir)
		changeSet := models.ChangeSet{
			Changes: []models.ChangeRecord{
				{Status: models.StatusModified, FilePath: "src/a.ts"},
				{Status: models.StatusModified, FilePath: "src/b.ts"},
			},
			BranchInfo: models.BranchInfo{Branch: "main"},
		}

		result := builder.Build(context.Background(), changeSet, ports.ScopeCommit)

		assert.Contains(t, result.Description, `Testing commit on branch "main"`)
		assert.Contains(t, result.Description, "2 changed files")
		assert.Contains(t, result.Description, "mostly TypeScript")
		assert.Equal(t, 2, result.TotalFiles)
		assert.Equal(t, 2, result.FileTypes["TypeScript"])
	})

	t.Run("should derive focus areas from file purposes", func(t *testing.T) {
		dir := t.TempDir()
		writeSourceFile(t, dir, "src/auth/session.ts", "export const session = {}\n")
		writeSourceFile(t, dir, "src/router/index.ts", "export const router = {}\n")
		writeSourceFile(t, dir, "src/components/LoginForm.tsx", "export function LoginForm() {}\n")

		builder := NewContextBuilder(dir)
		changeSet := models.ChangeSet{
			Changes: []models.ChangeRecord{
				{Status: models.StatusModified, FilePath: "src/auth/session.ts"},
				{Status: models.StatusModified, FilePath: "src/router/index.ts"},
				{Status: models.StatusModified, FilePath: "src/components/LoginForm.tsx"},
			},
		}

		result := builder.Build(context.Background(), changeSet, ports.ScopeWorking)

		assert.Contains(t, result.FocusAreas, "Authentication and authorization")
		assert.Contains(t, result.FocusAreas, "Navigation and routing")
		assert.Contains(t, result.FocusAreas, "Form input and validation")
		assert.True(t, sort.StringsAreSorted(result.FocusAreas))
	})

	t.Run("should skip deleted files from deep analysis but count them", func(t *testing.T) {
		dir := t.TempDir()
		builder := NewContextBuilder(dir)
		changeSet := models.ChangeSet{
			Changes: []models.ChangeRecord{
				{Status: models.StatusDeleted, FilePath: "src/gone.ts", Diff: models.DeletedFileDiff},
			},
		}

		result := builder.Build(context.Background(), changeSet, ports.ScopeWorking)

		assert.Equal(t, 1, result.TotalFiles)
		assert.Empty(t, result.Files)
	})

	t.Run("should tolerate unreadable files", func(t *testing.T) {
		dir := t.TempDir()
		builder := NewContextBuilder(dir)
		changeSet := models.ChangeSet{
			Changes: []models.ChangeRecord{
				{Status: models.StatusModified, FilePath: "src/missing.ts"},
			},
		}

		result := builder.Build(context.Background(), changeSet, ports.ScopeWorking)

		require.Len(t, result.Files, 1)
		assert.Equal(t, "src/missing.ts", result.Files[0].FilePath)
		assert.Empty(t, result.Files[0].Imports)
	})
}

func TestAnalyzeFile(t *testing.T) {
	t.Run("should extract imports exports and routes", func(t *testing.T) {
		dir := t.TempDir()
		writeSourceFile(t, dir, "src/app.ts", `
import { useState } from "react"
import axios from "axios"
const legacy = require("./legacy")

export function App() {}
export const config = { path: "/dashboard" }
`)

		builder := NewContextBuilder(dir)
		fileContext := builder.analyzeFile(context.Background(), "src/app.ts")

		assert.ElementsMatch(t, []string{"react", "axios", "./legacy"}, fileContext.Imports)
		assert.Contains(t, fileContext.Exports, "App")
		assert.Contains(t, fileContext.Exports, "config")
		assert.Contains(t, fileContext.Routes, "/dashboard")
	})

	t.Run("should skip deep analysis for oversized files", func(t *testing.T) {
		dir := t.TempDir()
		big := make([]byte, maxAnalyzedFileBytes+1)
		for i := range big {
			big[i] = 'a'
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, "big.js"), big, 0644))

		builder := NewContextBuilder(dir)
		fileContext := builder.analyzeFile(context.Background(), "big.js")

		assert.Equal(t, "big.js", fileContext.FilePath)
		assert.Empty(t, fileContext.Imports)
		assert.Empty(t, fileContext.Exports)
	})
}

func TestDetectPurpose(t *testing.T) {
	testCases := []struct {
		path     string
		expected string
	}{
		{"src/router/index.ts", "routing"},
		{"src/auth/login.ts", "auth"},
		{"src/api/client.ts", "service"},
		{"src/components/Button.tsx", "component"},
		{"src/utils/format.ts", "utility"},
		{"app.config.ts", "config"},
		{"src/models/user.ts", "other"},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.expected, detectPurpose(tc.path))
		})
	}
}

func TestDominantFileType(t *testing.T) {
	t.Run("should pick the most frequent type", func(t *testing.T) {
		assert.Equal(t, "TypeScript", dominantFileType(map[string]int{
			"TypeScript":  3,
			"Stylesheets": 1,
		}))
	})

	t.Run("should break ties alphabetically", func(t *testing.T) {
		assert.Equal(t, "JavaScript", dominantFileType(map[string]int{
			"TypeScript": 2,
			"JavaScript": 2,
		}))
	})

	t.Run("should return empty for no types", func(t *testing.T) {
		assert.Equal(t, "", dominantFileType(map[string]int{}))
	})
}
