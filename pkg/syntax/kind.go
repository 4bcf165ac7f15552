package syntax

// Kind tags every node with the grammar rule that produced it. Plugins
// subscribe to exact kinds; there is no matching on supertypes.
type Kind uint16

// Node kinds.
const (
	// KindOther marks grammar nodes without a dedicated tag.
	KindOther Kind = iota
	KindModule
	KindComment
	KindLineContinuation
	KindImportStatement
	KindImportFromStatement
	KindFutureImportStatement
	KindRelativeImport
	KindImportPrefix
	KindDottedName
	KindAliasedImport
	KindWildcardImport
	KindPrintStatement
	KindChevron
	KindAssertStatement
	KindExpressionStatement
	KindReturnStatement
	KindDeleteStatement
	KindRaiseStatement
	KindPassStatement
	KindBreakStatement
	KindContinueStatement
	KindGlobalStatement
	KindNonlocalStatement
	KindExecStatement
	KindTypeAliasStatement
	KindIfStatement
	KindElifClause
	KindElseClause
	KindForStatement
	KindWhileStatement
	KindTryStatement
	KindExceptClause
	KindExceptGroupClause
	KindFinallyClause
	KindWithStatement
	KindWithClause
	KindWithItem
	KindMatchStatement
	KindCaseClause
	KindCasePattern
	KindFunctionDefinition
	KindClassDefinition
	KindDecoratedDefinition
	KindDecorator
	KindBlock
	KindParameters
	KindLambdaParameters
	KindDefaultParameter
	KindTypedParameter
	KindTypedDefaultParameter
	KindListSplatPattern
	KindDictionarySplatPattern
	KindKeywordSeparator
	KindPositionalSeparator
	KindTypeParameter
	KindArgumentList
	KindExpressionList
	KindPatternList
	KindTuplePattern
	KindListPattern
	KindAsPattern
	KindAsPatternTarget
	KindClassPattern
	KindComplexPattern
	KindDictPattern
	KindKeywordPattern
	KindSplatPattern
	KindUnionPattern
	KindNamedExpression
	KindAssignment
	KindAugmentedAssignment
	KindNotOperator
	KindBooleanOperator
	KindBinaryOperator
	KindUnaryOperator
	KindComparisonOperator
	KindConditionalExpression
	KindLambda
	KindYield
	KindAwait
	KindAttribute
	KindSubscript
	KindSlice
	KindCall
	KindKeywordArgument
	KindListSplat
	KindDictionarySplat
	KindParenthesizedListSplat
	KindParenthesizedExpression
	KindGeneratorExpression
	KindListComprehension
	KindSetComprehension
	KindDictionaryComprehension
	KindForInClause
	KindIfClause
	KindList
	KindSet
	KindTuple
	KindDictionary
	KindPair
	KindType
	KindGenericType
	KindUnionType
	KindConstrainedType
	KindMemberType
	KindSplatType
	KindConcatenatedString
	KindString
	KindStringStart
	KindStringContent
	KindStringEnd
	KindInterpolation
	KindFormatSpecifier
	KindTypeConversion
	KindEscapeSequence
	KindEscapeInterpolation
	KindInteger
	KindFloat
	KindIdentifier
	KindTrue
	KindFalse
	KindNone
	KindEllipsis
	KindError

	// NumKinds is the number of defined kinds.
	NumKinds int = iota
)

var kindNames = [...]string{
	KindOther:                   "other",
	KindModule:                  "module",
	KindComment:                 "comment",
	KindLineContinuation:        "line_continuation",
	KindImportStatement:         "import_statement",
	KindImportFromStatement:     "import_from_statement",
	KindFutureImportStatement:   "future_import_statement",
	KindRelativeImport:          "relative_import",
	KindImportPrefix:            "import_prefix",
	KindDottedName:              "dotted_name",
	KindAliasedImport:           "aliased_import",
	KindWildcardImport:          "wildcard_import",
	KindPrintStatement:          "print_statement",
	KindChevron:                 "chevron",
	KindAssertStatement:         "assert_statement",
	KindExpressionStatement:     "expression_statement",
	KindReturnStatement:         "return_statement",
	KindDeleteStatement:         "delete_statement",
	KindRaiseStatement:          "raise_statement",
	KindPassStatement:           "pass_statement",
	KindBreakStatement:          "break_statement",
	KindContinueStatement:       "continue_statement",
	KindGlobalStatement:         "global_statement",
	KindNonlocalStatement:       "nonlocal_statement",
	KindExecStatement:           "exec_statement",
	KindTypeAliasStatement:      "type_alias_statement",
	KindIfStatement:             "if_statement",
	KindElifClause:              "elif_clause",
	KindElseClause:              "else_clause",
	KindForStatement:            "for_statement",
	KindWhileStatement:          "while_statement",
	KindTryStatement:            "try_statement",
	KindExceptClause:            "except_clause",
	KindExceptGroupClause:       "except_group_clause",
	KindFinallyClause:           "finally_clause",
	KindWithStatement:           "with_statement",
	KindWithClause:              "with_clause",
	KindWithItem:                "with_item",
	KindMatchStatement:          "match_statement",
	KindCaseClause:              "case_clause",
	KindCasePattern:             "case_pattern",
	KindFunctionDefinition:      "function_definition",
	KindClassDefinition:         "class_definition",
	KindDecoratedDefinition:     "decorated_definition",
	KindDecorator:               "decorator",
	KindBlock:                   "block",
	KindParameters:              "parameters",
	KindLambdaParameters:        "lambda_parameters",
	KindDefaultParameter:        "default_parameter",
	KindTypedParameter:          "typed_parameter",
	KindTypedDefaultParameter:   "typed_default_parameter",
	KindListSplatPattern:        "list_splat_pattern",
	KindDictionarySplatPattern:  "dictionary_splat_pattern",
	KindKeywordSeparator:        "keyword_separator",
	KindPositionalSeparator:     "positional_separator",
	KindTypeParameter:           "type_parameter",
	KindArgumentList:            "argument_list",
	KindExpressionList:          "expression_list",
	KindPatternList:             "pattern_list",
	KindTuplePattern:            "tuple_pattern",
	KindListPattern:             "list_pattern",
	KindAsPattern:               "as_pattern",
	KindAsPatternTarget:         "as_pattern_target",
	KindClassPattern:            "class_pattern",
	KindComplexPattern:          "complex_pattern",
	KindDictPattern:             "dict_pattern",
	KindKeywordPattern:          "keyword_pattern",
	KindSplatPattern:            "splat_pattern",
	KindUnionPattern:            "union_pattern",
	KindNamedExpression:         "named_expression",
	KindAssignment:              "assignment",
	KindAugmentedAssignment:     "augmented_assignment",
	KindNotOperator:             "not_operator",
	KindBooleanOperator:         "boolean_operator",
	KindBinaryOperator:          "binary_operator",
	KindUnaryOperator:           "unary_operator",
	KindComparisonOperator:      "comparison_operator",
	KindConditionalExpression:   "conditional_expression",
	KindLambda:                  "lambda",
	KindYield:                   "yield",
	KindAwait:                   "await",
	KindAttribute:               "attribute",
	KindSubscript:               "subscript",
	KindSlice:                   "slice",
	KindCall:                    "call",
	KindKeywordArgument:         "keyword_argument",
	KindListSplat:               "list_splat",
	KindDictionarySplat:         "dictionary_splat",
	KindParenthesizedListSplat:  "parenthesized_list_splat",
	KindParenthesizedExpression: "parenthesized_expression",
	KindGeneratorExpression:     "generator_expression",
	KindListComprehension:       "list_comprehension",
	KindSetComprehension:        "set_comprehension",
	KindDictionaryComprehension: "dictionary_comprehension",
	KindForInClause:             "for_in_clause",
	KindIfClause:                "if_clause",
	KindList:                    "list",
	KindSet:                     "set",
	KindTuple:                   "tuple",
	KindDictionary:              "dictionary",
	KindPair:                    "pair",
	KindType:                    "type",
	KindGenericType:             "generic_type",
	KindUnionType:               "union_type",
	KindConstrainedType:         "constrained_type",
	KindMemberType:              "member_type",
	KindSplatType:               "splat_type",
	KindConcatenatedString:      "concatenated_string",
	KindString:                  "string",
	KindStringStart:             "string_start",
	KindStringContent:           "string_content",
	KindStringEnd:               "string_end",
	KindInterpolation:           "interpolation",
	KindFormatSpecifier:         "format_specifier",
	KindTypeConversion:          "type_conversion",
	KindEscapeSequence:          "escape_sequence",
	KindEscapeInterpolation:     "escape_interpolation",
	KindInteger:                 "integer",
	KindFloat:                   "float",
	KindIdentifier:              "identifier",
	KindTrue:                    "true",
	KindFalse:                   "false",
	KindNone:                    "none",
	KindEllipsis:                "ellipsis",
	KindError:                   "ERROR",
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		if k != int(KindOther) {
			m[name] = Kind(k)
		}
	}
	return m
}()

// String returns the grammar name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "other"
}

// IsValid returns true if k is one of the defined kinds.
func (k Kind) IsValid() bool {
	return int(k) < NumKinds
}

// KindOf returns the kind for a grammar node name, or KindOther.
func KindOf(name string) Kind {
	if k, ok := kindsByName[name]; ok {
		return k
	}
	return KindOther
}
