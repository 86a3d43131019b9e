package template

import "github.com/lithammer/dedent"

var jestTemplate = dedent.Dedent(`
	// Test file for {{fileName}}

	describe('{{name}}', () => {
	  it('should work correctly', () => {
	    expect(true).toBe(true);
	  });
	});
`)

var typeDefinitionTemplate = dedent.Dedent(`
	// Type definitions for {{fileName}}

	export type {{name}} = {
	  // Define the properties of {{name}} here
	};
`)

// Builtin returns the templates that ship with nestkit. User templates
// override them by pattern.
func Builtin() Set {
	return Set{
		{Pattern: "*.spec.ts", Body: jestTemplate},
		{Pattern: "*.spec.js", Body: jestTemplate},
		{Pattern: "*.test.ts", Body: jestTemplate},
		{Pattern: "*.test.js", Body: jestTemplate},
		{Pattern: "*.d.ts", Body: typeDefinitionTemplate},
		{Pattern: "*.types.ts", Body: typeDefinitionTemplate},
	}
}
