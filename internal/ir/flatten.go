package ir

import (
	"fmt"

	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/solast"
)

// Flatten merges a contract with its inheritance chain into a single
// record. The walk is depth-first and parent-first: the contract's own
// members register before any parent's, then each direct parent's subtree
// is processed in declaration order. The first definition of a member key
// wins, except that a bodyless declaration is always satisfied by a later
// implementation. The child's constructor wins; parents contribute one only
// when the child has none. Inputs are never mutated; the returned record
// carries copies of every merged function and state variable.
//
// Unknown parent names are skipped and reported in the second return value;
// inheritance cycles terminate through the visited set.
func Flatten(c *Contract, registry Registry) (*Contract, []string) {
	out := &Contract{
		Name:       c.Name,
		Kind:       c.Kind,
		Parents:    append([]string(nil), c.Parents...),
		ParentArgs: map[string][]solast.Expression{},
		Pragmas:    c.Pragmas,
		Pos:        c.Pos,
	}

	var missing []string
	visited := map[string]bool{}
	seenState := map[string]bool{}
	seenFn := map[string]int{} // key -> index into out.Functions
	seenModifier := map[string]bool{}
	seenEvent := map[string]bool{}
	seenError := map[string]bool{}
	seenStruct := map[string]bool{}
	seenEnum := map[string]bool{}
	seenUsing := map[string]bool{}

	collect := func(cur *Contract) {
		for _, v := range cur.StateVars {
			if seenState[v.Name] {
				continue
			}
			seenState[v.Name] = true
			copied := *v
			out.StateVars = append(out.StateVars, &copied)
		}
		for _, f := range cur.Functions {
			key := functionKey(f)
			if idx, ok := seenFn[key]; ok {
				// an inherited or declared signature without a body is
				// satisfied by the first implementation encountered
				if out.Functions[idx].Body == nil && f.Body != nil {
					copied := *f
					out.Functions[idx] = &copied
				}
				continue
			}
			seenFn[key] = len(out.Functions)
			copied := *f
			out.Functions = append(out.Functions, &copied)
		}
		if out.Constructor == nil && cur.Constructor != nil {
			copied := *cur.Constructor
			out.Constructor = &copied
			out.ConstructorFrom = cur.Name
		}
		for _, m := range cur.Modifiers {
			if seenModifier[m.Name] {
				continue
			}
			seenModifier[m.Name] = true
			out.Modifiers = append(out.Modifiers, m)
		}
		for _, e := range cur.Events {
			if seenEvent[e.Name] {
				continue
			}
			seenEvent[e.Name] = true
			out.Events = append(out.Events, e)
		}
		for _, e := range cur.Errors {
			if seenError[e.Name] {
				continue
			}
			seenError[e.Name] = true
			out.Errors = append(out.Errors, e)
		}
		for _, s := range cur.Structs {
			if seenStruct[s.Name] {
				continue
			}
			seenStruct[s.Name] = true
			out.Structs = append(out.Structs, s)
		}
		for _, e := range cur.Enums {
			if seenEnum[e.Name] {
				continue
			}
			seenEnum[e.Name] = true
			out.Enums = append(out.Enums, e)
		}
		for _, u := range cur.UsingFor {
			key := u.Library + "/" + TypeString(u.Type)
			if seenUsing[key] {
				continue
			}
			seenUsing[key] = true
			out.UsingFor = append(out.UsingFor, u)
		}
		for name, args := range cur.ParentArgs {
			if _, ok := out.ParentArgs[name]; !ok {
				out.ParentArgs[name] = args
			}
		}
	}

	var walk func(cur *Contract)
	walk = func(cur *Contract) {
		if visited[cur.Name] {
			return
		}
		visited[cur.Name] = true
		collect(cur)
		for _, parentName := range cur.Parents {
			parent, ok := registry[parentName]
			if !ok {
				missing = append(missing, parentName)
				continue
			}
			walk(parent)
		}
	}
	walk(c)
	return out, missing
}

func functionKey(f *Function) string {
	return fmt.Sprintf("%s/%d", f.SourceName, len(f.Params))
}
