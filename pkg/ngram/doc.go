/*
Package ngram collects n-grams from sequences of discrete symbols.

It provides fixed-order, multi-order, positional and skip-gram windowing with
configurable boundary padding, a regex-based corpus tokenizer, frequency
counting helpers, and an n-gram Model that smooths next-symbol distributions
with any estimator from package smoothing.
*/
package ngram
