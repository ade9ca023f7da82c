package sema

import "chad/internal/ast"

type terminator func(ast.InstKind) bool

// returns accepts include as well: foreign code does its own returning.
func returns(k ast.InstKind) bool {
	return k == ast.InstReturn || k == ast.InstInclude
}

func diverges(k ast.InstKind) bool {
	return k == ast.InstReturn || k == ast.InstBreak || k == ast.InstContinue
}

// ifChain returns the if/elif/else group starting at body[i] and its length.
func ifChain(body []*ast.Inst, i int) []*ast.Inst {
	end := i + 1
	for end < len(body) {
		k := body[end].Kind
		if k != ast.InstElif && k != ast.InstElse {
			break
		}
		end++
		if k == ast.InstElse {
			break
		}
	}
	return body[i:end]
}

// allPaths reports whether every control path through body ends in an
// instruction accepted by term: body contains one directly, or it contains
// an if/elif/else group with an else where every arm satisfies allPaths.
// Loop bodies never count since they may not run.
func allPaths(body []*ast.Inst, term terminator) bool {
	for i := 0; i < len(body); i++ {
		inst := body[i]
		if term(inst.Kind) {
			return true
		}
		if inst.Kind != ast.InstIf {
			continue
		}
		chain := ifChain(body, i)
		if chain[len(chain)-1].Kind != ast.InstElse {
			continue
		}
		every := true
		for _, arm := range chain {
			if !allPaths(arm.Body, term) {
				every = false
				break
			}
		}
		if every {
			return true
		}
	}
	return false
}

// assignedTargets lists the assignment targets inside body, for loops whose
// later iterations cannot trust facts established before the loop.
func assignedTargets(body []*ast.Inst) []*ast.Expr {
	var out []*ast.Expr
	var walk func([]*ast.Inst)
	walk = func(insts []*ast.Inst) {
		for _, inst := range insts {
			if inst.Kind == ast.InstAssign {
				out = append(out, inst.Target)
			}
			walk(inst.Body)
		}
	}
	walk(body)
	return out
}
