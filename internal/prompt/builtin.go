package prompt

// builtinTemplates maps template filename to content.
var builtinTemplates = map[string]string{
	"fix-task.md":      fixTaskTemplate,
	"fix-checks.md":    fixChecksTemplate,
	"visual-design.md": visualDesignTemplate,
}

const fixTaskTemplate = `# Fix the following issue

{{task}}

## Repository
Working in: {{project_dir}}

{{#if check_failures}}
## Failing checks
The following validation checks are currently failing:

{{check_failures}}
{{/if}}

## Instructions
1. Read the relevant code to understand the current state.
2. Make the smallest change that resolves the issue described above.
3. Do not refactor unrelated code.
4. When you are done, confirm the affected files compile.

{{#if skill_instructions}}
{{skill_instructions}}
{{/if}}
`

const fixChecksTemplate = `# Fix failing validation checks

The following validation checks are failing in {{project_dir}}:

{{check_failures}}

## Instructions
1. Reproduce each failure locally before changing anything.
2. Fix the underlying cause, not the symptom — do not disable rules,
   skip tests, or loosen compiler settings.
3. Keep changes minimal and scoped to the failures listed above.

{{#if skill_instructions}}
{{skill_instructions}}
{{/if}}
`

const visualDesignTemplate = `## Visual design skills
This task involves visual design or CSS work. Apply visual-design skills:
respect the existing spacing scale, color palette, and typography. After
making changes, perform a visual verification pass — render the affected
pages or components and confirm the result looks correct at common
viewport sizes before declaring the task complete.
`
