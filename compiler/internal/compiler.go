package internal

// Logger receives progress messages, printf style.
type Logger func(format string, args ...interface{})

type compileConfig struct {
	logger        Logger
	parserOptions []ParserOption
}

type CompileOption func(config *compileConfig)

func WithLogger(logger Logger) CompileOption {
	return func(config *compileConfig) {
		config.logger = logger
	}
}

func WithParserOptions(opts ...ParserOption) CompileOption {
	return func(config *compileConfig) {
		config.parserOptions = append(config.parserOptions, opts...)
	}
}

// CompileResult keeps what every stage produced, for dumping tokens and the ast.
type CompileResult struct {
	Tokens  []*Token
	Program *Program
	Lines   []string
	Code    string
}

// Compile translates a tiny basic program to c.
func Compile(source string, opts ...CompileOption) (string, error) {
	result, err := CompileDetailed(source, opts...)
	if err != nil {
		return "", err
	}
	return result.Code, nil
}

func CompileDetailed(source string, opts ...CompileOption) (*CompileResult, error) {
	config := &compileConfig{logger: func(string, ...interface{}) {}}
	for _, opt := range opts {
		opt(config)
	}
	config.logger("compiler: start tokenizer, %d bytes", len(source))
	tokens, err := Lex(source)
	if err != nil {
		return nil, err
	}
	config.logger("compiler: start parser, %d tokens", len(tokens))
	program, err := Parse(tokens, config.parserOptions...)
	if err != nil {
		return nil, err
	}
	config.logger("compiler: start generate codes, %d statements, %d variables", len(program.Statements),
		program.Symbols.Len())
	for _, label := range program.Labels.Unreferenced() {
		config.logger("compiler: label %s is never used", label)
	}
	generator := &CodeGenerator{}
	generator.generateProgramCode(program)
	return &CompileResult{
		Tokens:  tokens,
		Program: program,
		Lines:   generator.Lines(),
		Code:    generator.String(),
	}, nil
}
