package codegen

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"quanta/internal/blocks"
	"quanta/internal/trace"
)

// pass holds the state of one Generate call.
type pass struct {
	tree   *blocks.Tree
	opts   Options
	defs   *definitions
	names  *nameDB
	tracer trace.Tracer
	parent uint64
	lower  cases.Caser
	upper  cases.Caser
}

// Generate renders tree as quanta assembly. The only errors are *Defect
// values describing configuration problems; empty operand slots and odd
// field values are emitted as they are.
func Generate(ctx context.Context, tree *blocks.Tree, opts Options) (string, error) {
	if tree == nil {
		tree = &blocks.Tree{}
	}
	p := newPass(ctx, tree, opts)
	span := trace.Begin(p.tracer, trace.ScopePass, "generate", trace.ParentSpan(ctx))
	p.parent = span.ID()

	p.declareVariables()

	var chunks []string
	for _, root := range tree.Roots {
		code, err := p.root(root)
		if err != nil {
			span.End(err.Error())
			return "", err
		}
		if code != "" {
			chunks = append(chunks, code)
		}
	}
	out := p.finish(strings.Join(chunks, "\n"))
	span.WithExtra("roots", strconv.Itoa(len(tree.Roots))).End("")
	return out, nil
}

func newPass(ctx context.Context, tree *blocks.Tree, opts Options) *pass {
	return &pass{
		tree:   tree,
		opts:   opts.Normalize(),
		defs:   newDefinitions(),
		names:  newNameDB(reservedWords()),
		tracer: trace.FromContext(ctx),
		lower:  cases.Lower(language.Und),
		upper:  cases.Upper(language.Und),
	}
}

func (p *pass) root(id blocks.ID) (string, error) {
	blk := p.tree.Get(id)
	span := trace.Begin(p.tracer, trace.ScopeBlock, blk.Kind().String(), p.parent)
	if blk != nil && blk.EditorID != "" {
		span.WithExtra("id", blk.EditorID)
	}
	code, err := p.chainCode(id)
	if err != nil {
		span.End(err.Error())
		return "", err
	}
	span.End("")
	return code, nil
}

// declareVariables registers the variable preamble: developer variables
// first, then user variables in order of first use.
func (p *pass) declareVariables() {
	var names []string
	for _, v := range p.tree.Variables {
		if v.Developer {
			names = append(names, p.names.name(v))
		}
	}
	for _, v := range p.tree.UsedVariables() {
		if !v.Developer {
			names = append(names, p.names.name(v))
		}
	}
	if len(names) > 0 {
		p.defs.set("variables", "var "+strings.Join(names, ", ")+";")
	}
}

// chainCode renders the chain starting at id, following Next links.
// Disabled blocks contribute nothing but do not cut the chain.
func (p *pass) chainCode(id blocks.ID) (string, error) {
	var sb strings.Builder
	for id.IsValid() {
		blk := p.tree.Get(id)
		if blk == nil {
			break
		}
		if !blk.Disabled {
			code, err := p.statementCode(id, blk)
			if err != nil {
				return "", err
			}
			sb.WriteString(p.leadingComments(blk))
			sb.WriteString(code)
		}
		id = blk.Next
	}
	return sb.String(), nil
}

// leadingComments renders the block's own comment followed by the
// comments found in its value inputs. Label groups get a framed comment.
func (p *pass) leadingComments(blk *blocks.Block) string {
	var sb strings.Builder
	if text := wrapText(blk.Comment, p.opts.CommentWrap-3); text != "" {
		if blk.Kind() == blocks.KindLabelGroup {
			sb.WriteString(";;\n")
			sb.WriteString(prefixLines(text+"\n", ";; "))
			sb.WriteString(";;\n")
		} else {
			sb.WriteString(prefixLines(text+"\n", "; "))
		}
	}
	if blk.Shape == nil {
		return sb.String()
	}
	for _, child := range blk.Shape.ValueInputs() {
		var nested []string
		p.collectComments(child, &nested)
		if len(nested) > 0 {
			sb.WriteString(prefixLines(strings.Join(nested, "\n")+"\n", "; "))
		}
	}
	return sb.String()
}

// collectComments appends the comments of id and of everything plugged
// into it, depth first.
func (p *pass) collectComments(id blocks.ID, out *[]string) {
	blk := p.tree.Get(id)
	if blk == nil {
		return
	}
	if blk.Comment != "" {
		*out = append(*out, blk.Comment)
	}
	if blk.Shape == nil {
		return
	}
	for _, child := range blk.Shape.ValueInputs() {
		p.collectComments(child, out)
	}
}

var (
	leadingBlank  = regexp.MustCompile(`^\s+\n`)
	trailingBlank = regexp.MustCompile(`\n\s+$`)
	trailingSpace = regexp.MustCompile(`[ \t]+\n`)
)

// finish prepends the definitions and normalises whitespace: no leading
// blank lines, one final newline, no trailing blanks on any line.
func (p *pass) finish(code string) string {
	if p.defs.len() > 0 {
		code = p.defs.render() + "\n\n\n" + code
	}
	code = leadingBlank.ReplaceAllString(code, "")
	code = trailingBlank.ReplaceAllString(code, "\n")
	return trailingSpace.ReplaceAllString(code, "\n")
}
